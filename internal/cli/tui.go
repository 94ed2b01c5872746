package cli

import "github.com/tartampluch/go-countday/internal/term"

// TUICmd opens the full-screen terminal view.
type TUICmd struct{}

// Run blocks until the user quits.
func (TUICmd) Run(ctx *Context) error {
	return term.Run(ctx.Ctx, ctx.Tracker(nil), ctx.Prefs, ctx.Tr)
}

package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used for vCard imports.
var UserAgent = "CountDay/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "CountDay"
	AppTagline        = "Track Your Special Moments"
	AppID             = "com.github.tartampluch.go-countday"
	BinaryName        = "countday"
	KeyringService    = "com.github.tartampluch.go-countday"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "countday.log"
	ConfigDirName     = "countday"
	ConfigFileName    = "config.yaml"
	PrefsFileName     = "prefs.yaml"
	DatabaseFileName  = "countday.db"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// Log Rotation
// -----------------------------------------------------------------------------

const (
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28
	LogPrefix     = "countday"
)

// -----------------------------------------------------------------------------
// Preference Keys
// -----------------------------------------------------------------------------

const (
	PrefViewMode    = "selectedViewMode"
	PrefFirstLaunch = "isFirstLaunch"
	PrefLanguage    = "language"
	PrefServerPort  = "server_port"
	PrefSourceMode  = "source_mode"
	PrefLocalPath   = "local_path"
	PrefCardDAVURL  = "carddav_url"
	PrefUsername    = "username"
	PrefLastRun     = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb      = "web"
	SourceModeLocal    = "local"
	DefaultPort        = "18081"
	DefaultLanguage    = "en"
	DefaultRefreshSpec = "@every 1m"
	DefaultLeapYear    = 2000 // Leap year fallback for dates like --02-29
	UIDSalt            = "go-countday-v1-"
	MinPort            = 1
	MaxPort            = 65535
	UIDHashLength      = 16
	FormatHashInput    = "%s|%s|%s"
	FormatUID          = "%s@%s"
	FallbackName       = "Unknown"
	FallbackColor      = "#000000"
	StatsColumns       = 3
	GridColumns        = 2
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	MainWinWidth        = 720
	MainWinHeight       = 640
	SettingsWindowWidth = 560
	CardWidth           = 200
	CardHeight          = 280
	IconBadgeSize       = 56
	ColorBadgeAlpha     = 0x33
	DateFormatDisplay   = "2006-01-02"
	DateFormatLong      = "Jan 2, 2006"
	PlaceholderDate     = "YYYY-MM-DD"
	PlaceholderColor    = "#RRGGBB"
	PlaceholderURL      = "https://..."
	LayoutColumnsDouble = 2
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle        = "win_title"
	TKeyWinSettings     = "win_settings_title"
	TKeyHeaderTitle     = "header_title"
	TKeyStatTotal       = "stat_total"
	TKeyStatUpcoming    = "stat_upcoming"
	TKeyStatPast        = "stat_past"
	TKeyViewList        = "view_list"
	TKeyViewCards       = "view_cards"
	TKeyViewGrid        = "view_grid"
	TKeyFilterAll       = "filter_all"
	TKeyFilterUpcoming  = "filter_upcoming"
	TKeyFilterPast      = "filter_past"
	TKeyDaysLeft        = "days_left"
	TKeyDaysSince       = "days_since"
	TKeyToday           = "today"
	TKeyNextOccurrence  = "next_occurrence" // Requires Count
	TKeyNavTitle        = "nav_title"       // Requires Title, Count
	TKeyEmptyList       = "empty_list"
	TKeyMenuShow        = "menu_show"
	TKeyMenuAdd         = "menu_add"
	TKeyMenuSettings    = "menu_settings"
	TKeyMenuImport      = "menu_import"
	TKeyTrayStatus      = "tray_status"      // Requires Count > 0
	TKeyTrayStatusZero  = "tray_status_zero" // Explicit key for 0
	TKeyDlgAddTitle     = "dlg_add_title"
	TKeyDlgEditTitle    = "dlg_edit_title"
	TKeyDlgDeleteTitle  = "dlg_delete_title"
	TKeyDlgDeleteMsg    = "dlg_delete_msg" // Requires Title
	TKeyLblTitle        = "lbl_title"
	TKeyLblDate         = "lbl_date"
	TKeyLblType         = "lbl_type"
	TKeyLblColor        = "lbl_color"
	TKeyLblRecurs       = "lbl_recurs"
	TKeyHelpDate        = "help_date"
	TKeyHelpColor       = "help_color"
	TKeyErrTitleReq     = "err_title_required"
	TKeyErrDateFormat   = "err_date_format"
	TKeyErrColorFormat  = "err_color_format"
	TKeyTypeBirthday    = "type_birthday"
	TKeyTypeAnniversary = "type_anniversary"
	TKeyTypeQuitSmoking = "type_quit_smoking"
	TKeyTypeHoliday     = "type_holiday"
	TKeyTypeGraduation  = "type_graduation"
	TKeyTypeCustom      = "type_custom"
	TKeyBtnSave         = "btn_save"
	TKeyBtnCancel       = "btn_cancel"
	TKeyBtnEdit         = "btn_edit"
	TKeyBtnDelete       = "btn_delete"
	TKeyBtnBrowse       = "btn_browse"
	TKeyBtnImport       = "btn_import"
	TKeyBtnReset        = "btn_reset"
	TKeyBtnOnboarding   = "btn_onboarding"
	TKeyBtnGetStarted   = "btn_get_started"
	TKeyLblGeneral      = "lbl_general"
	TKeyLblLanguage     = "lbl_language"
	TKeyHelpLanguage    = "help_language"
	TKeyLblPort         = "lbl_server_port"
	TKeyHelpPort        = "help_port"
	TKeyLblSource       = "lbl_source"
	TKeyModeCardDAV     = "mode_carddav"
	TKeyModeLocal       = "mode_local"
	TKeyLblURL          = "lbl_url"
	TKeyHelpURL         = "help_carddav_url"
	TKeyLblUser         = "lbl_user"
	TKeyLblPass         = "lbl_pass"
	TKeyLblFooter       = "lbl_footer" // Requires Version
	TKeyResetTitle      = "reset_title"
	TKeyResetMsg        = "reset_msg"
	TKeyOnboardTitle    = "onboard_title"
	TKeyOnboardBody     = "onboard_body"
	TKeyNotifImportOK   = "notif_import_ok" // Requires Count
	TKeyNotifImportErr  = "notif_import_err"
	TKeyErrPortReq      = "err_port_required"
	TKeyErrPortNum      = "err_port_number"
	TKeyErrPortRange    = "err_port_range"
	TKeyFormatDate      = "format_date_short"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//CountDay//Engine//EN"
	ICalCalName = "Special Days"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "countday"
	ICalYearly  = "FREQ=YEARLY"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDescription = "DESCRIPTION"
	PropCategories  = "CATEGORIES"
	PropColor       = "COLOR"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRRule       = "RRULE"
	PropRefresh     = "REFRESH-INTERVAL"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY        = "BDAY"
	VCardAnniversary = "ANNIVERSARY"
	VCardFN          = "FN"
	VCardN           = "N"

	DefaultICalRefresh = 1 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object used when there are no special days.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Data Formats & File Extensions
// -----------------------------------------------------------------------------

const (
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
	ExtICS   = ".ics"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteFeed           = "/" + BinaryName + ExtICS
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderContentDisp     = "Content-Disposition"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	AcceptVCard   = "text/vcard, text/x-vcard;q=0.9, text/directory;q=0.8, */*;q=0.1"
	MediaTypeHTML = "text/html"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatContentDisp expects the file name.
	FormatContentDisp = `inline; filename="%s"`

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrConfigPathEmpty  = "configuration error: config path is empty"
	ErrConfigNil        = "configuration error: config is nil"
	ErrConfigRead       = "failed to read config file"
	ErrConfigParse      = "failed to parse config file"
	ErrConfigWrite      = "failed to write config file"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrNotVCard         = "address book URL returned a web page, check the URL and credentials"
	ErrVCardTooLarge    = "address book exceeds the download size limit"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrConfigDir        = "could not determine user config dir"
	ErrCreateDir        = "could not create app directory"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrStoreOpen        = "failed to open record store"
	ErrStoreMigrate     = "failed to migrate record store"
	ErrStoreQuery       = "record store query failed"
	ErrStoreWrite       = "record store write failed"
	ErrRecordScan       = "failed to decode stored record"
	ErrSchedule         = "invalid refresh schedule"
	ErrKeyringSave      = "failed to save credentials to keyring"
	ErrNoPublisher      = "no calendar publisher configured"
	ErrImportSource     = "one of --file or --url is required"
	ErrResetConfirm     = "refusing to delete every record without --yes"
	ErrExportWrite      = "failed to write calendar file"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackTrayError   = "CountDay: Error"
	FallbackTrayDefault = "CountDay (%d today)"
	FallbackTrayLabel   = "CountDay"
	FallbackNavTitle    = "%s (%d)"

	TitleStartupError = "Startup Error"

	MsgPortBusy        = "Port %s is busy or unavailable."
	MsgAppStop         = "Application stopped gracefully"
	MsgAppStarting     = "Starting application"
	MsgCtxCancel       = "Context cancelled, shutting down UI"
	MsgWorkerStart     = "Refresh scheduler started"
	MsgWorkerStop      = "Refresh scheduler stopped"
	MsgRefresh         = "Refreshing special days"
	MsgRefreshFailed   = "Refresh failed"
	MsgStaleSnapshot   = "Dropping snapshot computed for a previous view state"
	MsgImportFailed    = "Contact import failed"
	MsgPublishFailed   = "Publishing calendar failed"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Calendar cache updated"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgPassFail        = "Password retrieval failed (might be empty)"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping invalid date format"
	MsgImportDone      = "vCard import finished"
	MsgGenSuccess      = "Calendar generation successful"
	MsgDirectionFixed  = "Corrected stale counting direction"
	MsgBadColor        = "Invalid theme color, using fallback"
	MsgBadViewMode     = "Unreadable view mode preference, using default"
	MsgDayAdded        = "Special day added"
	MsgDayUpdated      = "Special day updated"
	MsgDayDeleted      = "Special day deleted"
	MsgMigrationApply  = "Applying migration"
	MsgViewModeChanged = "View mode changed"
	MsgFilterChanged   = "Filter mode changed"
	MsgFirstLaunch     = "First launch detected, showing onboarding"
	MsgAppReset        = "Application preferences reset"
	MsgVersionOutput   = "%s version %s (%s/%s)\n"
	MsgServeReady      = "Serving calendar feed"
)

// -----------------------------------------------------------------------------
// Command Line Output
// -----------------------------------------------------------------------------

const (
	FormatCLIAdded    = "Added %s (%s)\n"
	FormatCLIUpdated  = "Updated %s\n"
	FormatCLIDeleted  = "Deleted %s\n"
	FormatCLIExported = "Wrote %d bytes to %s\n"
	FormatCLIImported = "Imported %d special days (%d new, %d updated)\n"
	FormatCLIReset    = "Preferences reset\n"
	FormatCLIPurged   = "Deleted every special day\n"
	FormatCLIServing  = "Serving %s\n"
	FormatCLIError    = "Error: %v\n"
	FeedURLFormat     = "http://%s%s"
	EditKeep          = "keep"
	EditYes           = "yes"
	EditNo            = "no"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyFilter    = "filter"
	LogKeySchedule  = "schedule"
	LogKeyUser      = "user"
	LogKeyID        = "id"
	LogKeyTitle     = "title"
	LogKeyValue     = "value"
	LogKeyCount     = "count"
	LogKeyTotal     = "total_cards"
	LogKeyImported  = "imported"
	LogKeyStored    = "stored"
	LogKeyDerived   = "derived"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyVersion   = "version"
	LogKeyCommand   = "command"
	LogKeyConfig    = "config"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild = "build"
	LogKeyApp   = "app"
	LogKeyGoVer = "go_version"
	LogKeyEnv   = "env"
	LogKeyOS    = "os"
	LogKeyArch  = "arch"
	LogKeyPID   = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI      = "ui"
	CompUISet   = "ui_settings"
	CompEngine  = "engine"
	CompStore   = "store"
	CompTracker = "tracker"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompMain    = "main"
	CompI18n    = "i18n"
	CompCLI     = "cli"
	CompTerm    = "term"
	CompConfig  = "config"
)

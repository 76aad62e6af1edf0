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

// UserAgent identifies the HTTP client.
var UserAgent = "Go-LifeStats/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Go LifeStats"
	AppID          = "com.github.tartampluch.go-lifestats"
	KeyringService = "com.github.tartampluch.go-lifestats"
	KeyringUser    = "upstream-api-key"
	LogFileName    = "app.log"
	ServiceName    = "go-lifestats"
	TracerName     = "github.com/tartampluch/go-lifestats"
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
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion  = "version"
	FlagDebug    = "debug"
	FlagYear     = "year"
	FlagMonth    = "month"
	FlagDay      = "day"
	FlagLang     = "lang"
	FlagRemote   = "remote"
	FlagPDF      = "pdf"
	FlagICS      = "ics"
	FlagBaseURL  = "base-url"
	FlagDescVer  = "Show application version and exit"
	FlagDescDbg  = "Enable debug logging to stdout"
	FlagDescYear = "Birth year"
	FlagDescMon  = "Birth month (1-12)"
	FlagDescDay  = "Birth day (1-31)"
	FlagDescLang = "Display language (en, ko, es)"
	FlagDescRem  = "Base URL of a remote statistics API (computes locally when empty)"
	FlagDescPDF  = "Write a PDF stats card to this file"
	FlagDescICS  = "Write an iCalendar milestone feed to this file"
	FlagDescBase = "Base URL used when generating share links"

	MsgVersionOutput = "%s version %s (%s/%s)\n"

	CmdRoot        = "go-lifestats"
	CmdServe       = "serve"
	CmdCalc        = "calc"
	CmdShare       = "share [url]"
	CmdToken       = "token"
	CmdTokenSet    = "set [key]"
	CmdTokenDelete = "delete"
	CmdDescRoot    = "Life statistics calculator and API server"
	CmdDescServe   = "Run the HTTP API server"
	CmdDescCalc    = "Compute life statistics for a birthdate"
	CmdDescShare   = "Build a share link for a birthdate, or read one back"
	CmdDescToken   = "Manage the upstream API key stored in the OS keyring"
	CmdDescTokSet  = "Store the upstream API key (read from stdin when omitted)"
	CmdDescTokDel  = "Remove the upstream API key"
)

// -----------------------------------------------------------------------------
// Life Statistics
// -----------------------------------------------------------------------------

const (
	HeartRatePerMinute = 72
	BreathsPerMinute   = 15
	SleepHoursPerDay   = 8
	MealsPerDay        = 3
	MilestoneDays      = 10000
	DaysPerYear        = 365

	// MinBirthYear is the lowest year accepted at the API boundary.
	MinBirthYear = 1900

	// The engine only accepts four-digit years, which keeps every derived count inside int64.
	MinCalendarYear = 1
	MaxCalendarYear = 9999

	SecondsPerMinute = 60
	SecondsPerHour   = 3600
	SecondsPerDay    = 86400
)

// Milestone label keys (translation keys) and icons.
const (
	MilestoneKey100    = "milestone100"
	MilestoneKey200    = "milestone200"
	MilestoneKey500    = "milestone500"
	MilestoneKey1000   = "milestone1000"
	MilestoneKey5Years = "milestone5years"

	MilestoneIcon100    = "💯"
	MilestoneIcon200    = "🎊"
	MilestoneIcon500    = "🎁"
	MilestoneIcon1000   = "💎"
	MilestoneIcon5Years = "🏆"
)

// -----------------------------------------------------------------------------
// Locales
// -----------------------------------------------------------------------------

const (
	DefaultLanguage = "en"

	// LocaleCookieName is shared with the web frontend.
	LocaleCookieName   = "NEXT_LOCALE"
	LocaleCookieMaxAge = 365 * 24 * time.Hour
	LocaleCookiePath   = "/"
)

// SupportedLanguages lists the locales in Accept-Language priority order.
var SupportedLanguages = []string{"ko", "es", "en"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyMetaTitle       = "meta_title"
	TKeyMetaDescription = "meta_description"

	TKeyFormCalculate   = "form_calculate_button"
	TKeyFormCalculating = "form_calculating"
	TKeyFormPrivacy     = "form_privacy_note"

	TKeyToastEnterAll    = "toast_enter_all_fields"
	TKeyToastInvalidDate = "toast_invalid_date"
	TKeyToastFutureDate  = "toast_future_date"
	TKeyToastCalcFailed  = "toast_calculation_failed"
	TKeyToastURLCopied   = "toast_url_copied"
	TKeyToastImageSaved  = "toast_image_downloaded"
	TKeyToastImageFailed = "toast_image_download_failed"

	TKeyViewTotalViews = "view_total_views"
	TKeyViewTotalCalcs = "view_total_calculations"

	TKeyResultTitle    = "result_title"
	TKeyResultSubtitle = "result_subtitle"

	TKeyStatAge           = "stat_age"
	TKeyStatDays          = "stat_days"
	TKeyStatHours         = "stat_hours"
	TKeyStatMinutes       = "stat_minutes"
	TKeyStatSeconds       = "stat_seconds"
	TKeyStatHeartbeats    = "stat_heartbeats"
	TKeyStatBreaths       = "stat_breaths"
	TKeyStatSleep         = "stat_sleep"
	TKeyStatMeals         = "stat_meals"
	TKeyStatNextBirthday  = "stat_next_birthday"
	TKeyStatNextMilestone = "stat_next_milestone"

	TKeyUnitYears    = "unit_years"
	TKeyUnitDays     = "unit_days"
	TKeyUnitHours    = "unit_hours"
	TKeyUnitMinutes  = "unit_minutes"
	TKeyUnitSeconds  = "unit_seconds"
	TKeyUnitTimes    = "unit_times"
	TKeyUnitMeals    = "unit_meals"
	TKeyUnitDaysLeft = "unit_days_left"

	TKeyCompatTitle     = "compat_title"
	TKeyCompatSubtitle  = "compat_subtitle"
	TKeyCompatScore     = "compat_score"
	TKeyCompatSummary   = "compat_summary"
	TKeyCompatStrengths = "compat_strengths"
	TKeyCompatCautions  = "compat_cautions"
	TKeyCompatElements  = "compat_elements"
	TKeyCompatZodiac    = "compat_zodiac"
	TKeyCompatAdvice    = "compat_advice"
	TKeyCompatFailed    = "compat_failed"

	TKeyCalName         = "cal_name"
	TKeyEvtBirthday     = "event_birthday"  // Requires Age
	TKeyEvtMilestone    = "event_milestone" // Requires Days
	TKeyFooterCopyright = "footer_copyright"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go LifeStats//Engine//EN"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "lifestats"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropRefresh    = "REFRESH-INTERVAL"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"
	PropCategories = "CATEGORIES"

	CategoryBirthday  = "BIRTHDAY"
	CategoryMilestone = "MILESTONE"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 24 * time.Hour

	// FallbackName labels contacts that carry neither FN nor N.
	FallbackName = "Unknown"

	// FormatEventName feeds the UUIDv5 generator for stable event UIDs.
	FormatEventName = "%s:%04d-%02d-%02d:%d@%s"
)

// -----------------------------------------------------------------------------
// PDF Export
// -----------------------------------------------------------------------------

const (
	PDFOrientation = "P"
	PDFUnit        = "mm"
	PDFPageSize    = "A4"
	PDFFont        = "Arial"
	PDFStyleBold   = "B"
	PDFStyleNormal = ""
	PDFTitleSize   = 20
	PDFHeadingSize = 14
	PDFBodySize    = 12
	PDFSmallSize   = 9
	PDFLineHeight  = 8
	PDFLabelWidth  = 70
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"

	MaxNameLength    = 50
	MaxHour          = 23
	MaxRequestBody   = 1 << 20 // 1MB
	MaxVCardBody     = 8 << 20 // 8MB
	MaxErrorBodyRead = 4096

	EventPageView        = "page_view"
	EventStatsCalculated = "stats_calculated"

	GenderMale   = "male"
	GenderFemale = "female"

	CompatLanguageKo      = "ko"
	CompatLanguageEn      = "en"
	CompatDefaultLanguage = CompatLanguageKo
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	UpstreamPingTimeout = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	MaxHTTPResponseSize = 4 * 1024 * 1024 // 4MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	DefaultAddr         = "127.0.0.1:8050"
	DefaultDBFile       = "lifestats.db"

	// MaxCalendarFeeds bounds the number of cached calendar feeds.
	MaxCalendarFeeds = 1024
)

// -----------------------------------------------------------------------------
// Routes
// -----------------------------------------------------------------------------

const (
	RouteRoot           = "/"
	RouteHealth         = "/health"
	RouteAPIPrefix      = "/api"
	RouteStatsCalculate = "/api/v1/stats/calculate"
	RouteStatsVCard     = "/api/v1/stats/vcard"
	RouteStatsCalendar  = "/api/v1/stats/calendar.ics"
	RouteStatsExportPDF = "/api/v1/stats/export.pdf"
	RouteViewsPageView  = "/api/v1/views/page-view"
	RouteViewsStatsCalc = "/api/v1/views/stats-calculated"
	RouteViewsAll       = "/api/v1/views/all"
	RouteViewsByType    = "/api/v1/views/{event_type}"
	RouteCompatAnalyze  = "/api/v1/compatibility/analyze"
	RouteCompatHealth   = "/api/v1/compatibility/health"
	RoutePageLang       = "/{lang}"
	RoutePageLangSub    = "/{lang}/{rest:.*}"
	RouteVarEventType   = "event_type"

	QueryYear  = "year"
	QueryMonth = "month"
	QueryDay   = "day"
	QueryLang  = "lang"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAuthorization   = "Authorization"
	HeaderAccept          = "Accept"
	HeaderAcceptLanguage  = "Accept-Language"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderOrigin          = "Origin"
	HeaderVary            = "Vary"
	HeaderContentDisp     = "Content-Disposition"

	HeaderACAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderACAllowMethods     = "Access-Control-Allow-Methods"
	HeaderACAllowHeaders     = "Access-Control-Allow-Headers"
	HeaderACAllowCredentials = "Access-Control-Allow-Credentials"
	HeaderACRequestMethod    = "Access-Control-Request-Method"

	MimeJSON            = "application/json"
	MimeHTML            = "text/html"
	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimePDF             = "application/pdf"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	CORSAllowedMethods  = "GET, POST, OPTIONS"
	CORSAllowedHeaders  = "Content-Type, Authorization"
	CORSAnyOrigin       = "*"
	BearerPrefix        = "Bearer "

	FormatETag        = `"%s"`
	FormatPDFFilename = `attachment; filename="my-life-stats-%04d%02d%02d.pdf"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidDate     = "invalid calendar date"
	ErrFutureDate      = "birthdate cannot be in the future"
	ErrYearRange       = "birth year out of range"
	ErrMonthRange      = "birth month must be between 1 and 12"
	ErrDayRange        = "birth day must be between 1 and 31"
	ErrHourRange       = "birth hour must be between 0 and 23"
	ErrGender          = `gender must be either "male" or "female"`
	ErrNameTooLong     = "name must be at most 50 characters"
	ErrLanguage        = `language must be either "ko" or "en"`
	ErrPerson1         = "person 1"
	ErrPerson2         = "person 2"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrAddrRequired    = "server address is required"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrBaseURLRequired = "API base URL is required"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrPDFRender       = "failed to render PDF"
	ErrPDFNoCatalog    = "no locale catalog to render PDF with"
	ErrCompatInvalid   = "invalid compatibility request"
	ErrDateParse       = "unable to parse date"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrDecodeBody      = "invalid request body"
	ErrEncodeBody      = "failed to encode request body"
	ErrDecodeResp      = "failed to decode response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrStoreRequired   = "storage is not configured"
	ErrStorePath       = "storage path is required"
	ErrStoreOpen       = "open sqlite db"
	ErrStorePing       = "ping sqlite db"
	ErrStoreMigrate    = "run migrations"
	ErrEventTypeEmpty  = "event type is required"
	ErrIncrement       = "increment view count"
	ErrReadCount       = "read view count"
	ErrListCounts      = "list view counts"
	ErrViewNotFound    = "view count not found"
	ErrUpstreamMissing = "compatibility backend is not configured"
	ErrUpstreamRequest = "upstream request failed"
	ErrUpstreamStatus  = "upstream returned unexpected status"
	ErrKeyringRead     = "failed to read API key from keyring"
	ErrConfigParse     = "parse env"
	ErrTelemetrySetup  = "telemetry setup failed"
	ErrTelemetryFlush  = "telemetry shutdown failed"
	ErrFutureCancelled = "export cancelled before completion"
	ErrViewCountRecord = "failed to record view event"
	ErrShareURL        = "URL does not carry a birthdate"
	ErrKeyEmpty        = "API key is empty"
	ErrWriteFile       = "failed to write file"
	ErrRemoteCalc      = "remote calculation failed"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgHealthy        = "healthy"
	HTTPMsgRunning        = "My Life Stats API is running"
	HTTPMsgNotFound       = "Not Found"
	HTTPMsgMethodNotAll   = "Method Not Allowed"
	HTTPMsgInternalErr    = "Internal Server Error"
	HTTPMsgUpstreamFailed = "Failed to analyze compatibility. Please try again later."
	HTTPMsgCalcFailed     = "Failed to calculate statistics."
	HTTPMsgNoBirthdate    = "year, month and day query parameters are required"
	HTTPMsgGenericFailure = "Request failed. Please try again later."
	HTTPMsgBodyTooLarge   = "Request body too large"
	HTTPMsgBadVCard       = "Invalid vCard data"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStop        = "Application stopped gracefully"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgRequest        = "HTTP request"
	MsgStatsComputed  = "Life statistics computed"
	MsgCacheUpdated   = "Calendar cache updated"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgVCardDone      = "vCard import finished"
	MsgCalendarBuilt  = "Calendar feed built"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgLocaleRedirect = "Locale redirect"
	MsgUpstreamCall   = "Calling upstream API"
	MsgUpstreamStatus = "Upstream returned error status"
	MsgMigrationDone  = "Migrations applied"
	MsgViewRecorded   = "View event recorded"
	MsgKeyringMiss    = "No API key in keyring"
	MsgKeyStored      = "API key stored in keyring"
	MsgKeyDeleted     = "API key removed from keyring"
	MsgTelemetryOff   = "Tracing disabled"
	MsgTelemetryOn    = "Tracing enabled"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgFileWritten    = "File written"
	MsgTotalsMissing  = "View totals unavailable for page"
	MsgPDFRendered    = "PDF card rendered"
	MsgCatalogReady   = "Locale catalog loaded"
	MsgUpstreamUp     = "Upstream backend reachable"
	MsgUpstreamDown   = "Upstream backend unreachable"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyMethod    = "method"
	LogKeyPath      = "path"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyLangs     = "langs"
	LogKeySource    = "source"
	LogKeyKey       = "key"
	LogKeyAddr      = "addr"
	LogKeyValue     = "value"
	LogKeyEvent     = "event_type"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDays      = "total_days"
	LogKeyDuration  = "duration_ms"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyStats     = "stats"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyEndpoint  = "endpoint"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain      = "main"
	CompEngine    = "engine"
	CompServer    = "server"
	CompClient    = "apiclient"
	CompStorage   = "storage"
	CompViews     = "views"
	CompI18n      = "i18n"
	CompLocale    = "locale"
	CompExport    = "export"
	CompTelemetry = "telemetry"
	CompCLI       = "cli"
)

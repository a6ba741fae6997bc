package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"runtime/debug"
	"strconv"

	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/autoscale"
	"github.com/bbyours/attendance-server/config"
	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/events"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/alert"
	"github.com/bbyours/attendance-server/services/audit"
	"github.com/bbyours/attendance-server/services/mail"
	"github.com/bbyours/attendance-server/services/session"
	"github.com/bbyours/attendance-server/services/zookeeper"
	"github.com/bbyours/attendance-server/util"
)

type contextKey int

// Keys for setting values on a request-scoped Context.
const (
	CallerVal contextKey = iota
	CaptureGroupsVal
	GEMVal
	Logger
	SessionID
	DAO
)

// AppServer is an http.Handler implementation that holds most service dependencies.
type AppServer struct {
	// Port is the TCP port that the web server listens on.
	Port string
	// Bind is the Network Address that the web server will use.
	Bind string
	// Addr is the combined network address and port the server listens on.
	Addr string
	// RootDAO is the interface contract with the database.
	RootDAO dao.DAO
	// Conf is the configuration passed to the application.
	Conf config.ServerSettingsConfiguration
	// ServicePrefix is the base url. Used when matching routes.
	ServicePrefix string
	// SessionStore holds login sessions and pending one time codes.
	SessionStore session.Store
	// Mailer delivers one time passcodes for exception requests.
	Mailer mail.Mailer
	// Alerter pushes operational notifications at administrators.
	Alerter alert.Alerter
	// EventQueue is a Publisher interface we use to publish our main event stream.
	EventQueue events.Publisher
	// EventQueueZK is a pointer to the cluster where we discover Kafka. May be the same as DefaultZK.
	EventQueueZK *zookeeper.ZKState
	// Tracker captures metrics about transaction latency per operation.
	Tracker *performance.JobReporters
	// TemplateCache holds HTML templates.
	TemplateCache *template.Template
	// StaticDir is the path of static web assets.
	StaticDir string
	// Routes holds the compiled regular expressions used when matching routes. See InitRegex method.
	Routes *StaticRx
	// DefaultZK wraps a connection to the ZK cluster we announce to, and holds state for our registration.
	DefaultZK *zookeeper.ZKState
}

// NewAppServer creates an AppServer.
func NewAppServer(conf config.ServerSettingsConfiguration) (*AppServer, error) {

	var templates *template.Template
	var err error

	// If template path specified, ensure templates can be loaded
	if len(conf.PathToTemplateFiles) > 0 {
		templates, err = template.ParseGlob(filepath.Join(conf.PathToTemplateFiles, "*"))
		if err != nil {
			return nil, err
		}
	} else {
		templates = nil
	}

	staticDir, err := resolvePath(conf.PathToStaticFiles)
	if err != nil {
		return nil, err
	}

	app := AppServer{
		Port:          conf.ListenPort,
		Bind:          conf.ListenBind,
		Addr:          conf.ListenBind + ":" + conf.ListenPort,
		Conf:          conf,
		Tracker:       performance.NewJobReporters(1024),
		ServicePrefix: conf.BasePath,
		TemplateCache: templates,
		StaticDir:     staticDir,
	}

	app.InitRegex()

	return &app, nil
}

// InitRegex compiles static regexes and initializes the AppServer Routes field.
func (h *AppServer) InitRegex() {
	route := func(path string) *regexp.Regexp {
		return regexp.MustCompile(h.ServicePrefix + path)
	}
	h.Routes = &StaticRx{
		// UI
		Home:        route("/?$"),
		HomeUI:      route("/ui/?$"),
		Favicon:     route("/favicon.ico$"),
		Stats:       route("/stats$"),
		StaticFiles: route("/static/(?P<path>.*)"),
		// Service operations
		// - sessions
		Login:        route("/api/login$"),
		Logout:       route("/api/logout$"),
		CheckSession: route("/api/session$"),
		// - attendance
		ClockIn:         route("/api/attendance/clockin$"),
		ClockOut:        route("/api/attendance/clockout$"),
		AttendanceToday: route("/api/attendance/today$"),
		EarlyClockIn:    route("/api/attendance/early-clockin$"),
		Overtime:        route("/api/attendance/overtime$"),
		// - inventory
		Inventory:    route("/api/inventory$"),
		InventoryUse: route("/api/inventory/use$"),
		// - payslips
		Payslip: route("/api/payslip$"),
		// - messaging
		Messages:    route("/api/messages$"),
		MessageRead: route("/api/messages/(?P<messageId>[0-9a-fA-F-]{36})/read$"),
		// - administration
		AdminArea:              route("/api/admin/"),
		AdminDashboard:         route("/api/admin/dashboard$"),
		AdminApprovals:         route("/api/admin/approvals$"),
		AdminApproval:          route("/api/admin/approvals/(?P<approvalId>[0-9a-fA-F-]{36})$"),
		AdminEmployees:         route("/api/admin/employees$"),
		AdminEmployeePassword:  route("/api/admin/employees/(?P<employeeCode>[0-9a-zA-Z]+)/password$"),
		AdminEmployeePayslip:   route("/api/admin/employees/(?P<employeeCode>[0-9a-zA-Z]+)/payslip$"),
		AdminEmployeeInventory: route("/api/admin/employees/(?P<employeeCode>[0-9a-zA-Z]+)/inventory$"),
		AdminLogs:              route("/api/admin/logs$"),
	}
}

//When there is a panic, all deferred functions get executed.
func logCrashInServeHTTP(logger *zap.Logger, w http.ResponseWriter) {
	if r := recover(); r != nil {
		logger.Error("attendance server crash", zap.Any("context", r), zap.String("stack", string(debug.Stack())))
		w.WriteHeader(http.StatusInternalServerError)
		//Note: even if we follow "let it crash" and explicitly return an error code,
		//we should log this and return a 500 if we plan on doing a system exit on internal 5xx errors.
	}
}

// ServeHTTP handles the routing of requests
func (h AppServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	beginTSInMS := util.NowMS()

	requestID := newRequestID()
	w.Header().Add("requestid", requestID)

	logger := config.RootLogger.With(zap.String("request", requestID))
	defer logCrashInServeHTTP(logger, w)

	ctx := r.Context()
	ctx = ContextWithLogger(ctx, logger)
	ctx = ContextWithSession(ctx, requestID)
	ctx = ContextWithDAO(ctx, h.RootDAO)

	logger.Info(
		"transaction start",
		zap.String("method", r.Method),
		zap.String("uri", r.RequestURI),
		zap.String("addr", r.RemoteAddr),
	)

	var uri = r.URL.Path
	var herr *AppError

	// CORS support - if it specifies an origin, then reflect back an access control origin
	if reqOrigin := r.Header.Get("Origin"); reqOrigin != "" {
		w.Header().Set("Access-Control-Allow-Origin", reqOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Vary", "Origin")

	// Every transaction gets a GEM, even on paths that need no session
	gem := globalEventFromRequest(r)
	gem.Payload.SessionID = requestID
	gem.Payload.Audit = defaultAudit(r)
	ctx = ContextWithGEM(ctx, gem)

	// The following routes can be handled without a session
	withoutSession := false
	switch r.Method {
	case "OPTIONS":
		// Handle the pre-flight request here
		herr = h.cors(ctx, w, r)
		withoutSession = true
	case "GET":
		switch {
		case h.Routes.Home.MatchString(uri):
			herr = h.home(ctx, w, r)
			withoutSession = true
		case h.Routes.HomeUI.MatchString(uri):
			herr = h.home(ctx, w, r)
			withoutSession = true
		case h.Routes.Favicon.MatchString(uri):
			herr = h.favicon(ctx, w, r)
			withoutSession = true
		case h.Routes.Stats.MatchString(uri):
			herr = h.getStats(ctx, w, r)
			withoutSession = true
		case h.Routes.StaticFiles.MatchString(uri):
			ctx = parseCaptureGroups(ctx, r.URL.Path, h.Routes.StaticFiles)
			herr = h.serveStatic(ctx, w, r)
			withoutSession = true
		}
	case "POST":
		switch {
		case h.Routes.Login.MatchString(uri):
			herr = h.login(ctx, w, r)
			withoutSession = true
		}
	}
	if withoutSession {
		if herr != nil {
			sendAppErrorResponse(logger, &w, herr)
		} else {
			countOKResponse(logger)
		}
		if h.Tracker != nil {
			autoscale.CloudWatchTransaction(beginTSInMS, util.NowMS(), h.Tracker)
		}
		return
	}

	// Authentication check GEM
	authGem := globalEventFromRequest(r)
	authGem.Action = "authenticate"
	authGem.Payload.SessionID = requestID
	authGem.Payload.Audit = defaultAudit(r)
	authGem.Payload.Audit = audit.WithType(authGem.Payload.Audit, "EventAuthenticate")
	authGem.Payload.Audit = audit.WithAction(authGem.Payload.Audit, "AUTHENTICATE")

	caller, err := h.FetchCaller(ctx, r)
	if err != nil {
		herr := NewAppError(401, err, "Session expired")
		h.publishError(authGem, herr)
		sendAppErrorResponse(logger, &w, herr)
		if h.Tracker != nil {
			autoscale.CloudWatchTransaction(beginTSInMS, util.NowMS(), h.Tracker)
		}
		return
	}
	authGem.Payload.UserID = caller.EmployeeCode
	authGem.Payload.Audit = audit.WithActionResult(authGem.Payload.Audit, "SUCCESS")
	h.EventQueue.Publish(authGem)

	// Enrich the request GEM with the resolved identity
	gem.Payload.UserID = caller.EmployeeCode
	gem.Payload.Audit = audit.WithActionInitiator(gem.Payload.Audit, "EMPLOYEE_CODE", caller.EmployeeCode)

	ctx = ContextWithCaller(ctx, caller)
	ctx = ContextWithGEM(ctx, gem)

	// Every admin operation requires the admin role, checked once here.
	if h.Routes.AdminArea.MatchString(uri) && !caller.IsAdmin() {
		herr = NewAppError(403, fmt.Errorf("employee %s attempted admin operation", caller.EmployeeCode), "Forbidden")
		h.recordDenied(ctx, r)
		h.publishError(gem, herr)
		sendAppErrorResponse(logger, &w, herr)
		if h.Tracker != nil {
			autoscale.CloudWatchTransaction(beginTSInMS, util.NowMS(), h.Tracker)
		}
		return
	}

	switch r.Method {
	case "GET":
		switch {
		// - session state
		case h.Routes.CheckSession.MatchString(uri):
			herr = h.checkSession(ctx, w, r)
		// - today's attendance record
		case h.Routes.AttendanceToday.MatchString(uri):
			herr = h.getTodayAttendance(ctx, w, r)
		// - stocked products
		case h.Routes.Inventory.MatchString(uri):
			herr = h.getInventory(ctx, w, r)
		// - own payslip
		case h.Routes.Payslip.MatchString(uri):
			herr = h.getPayslip(ctx, w, r)
		// - own inbox
		case h.Routes.Messages.MatchString(uri):
			herr = h.getMessages(ctx, w, r)
		// - admin landing numbers
		case h.Routes.AdminDashboard.MatchString(uri):
			herr = h.getAdminDashboard(ctx, w, r)
		// - exception requests awaiting a decision
		case h.Routes.AdminApprovals.MatchString(uri):
			herr = h.getPendingApprovals(ctx, w, r)
		// - employee accounts
		case h.Routes.AdminEmployees.MatchString(uri):
			herr = h.getAllEmployees(ctx, w, r)
		// - payslips of a named employee
		case h.Routes.AdminEmployeePayslip.MatchString(uri):
			ctx = parseCaptureGroups(ctx, r.URL.Path, h.Routes.AdminEmployeePayslip)
			herr = h.getEmployeePayslip(ctx, w, r)
		// - inventory draws of a named employee
		case h.Routes.AdminEmployeeInventory.MatchString(uri):
			ctx = parseCaptureGroups(ctx, r.URL.Path, h.Routes.AdminEmployeeInventory)
			herr = h.getEmployeeInventory(ctx, w, r)
		// - security log tail
		case h.Routes.AdminLogs.MatchString(uri):
			herr = h.getRecentLogs(ctx, w, r)
		default:
			herr = do404(ctx, w, r)
			h.publishError(gem, herr)
		}

	case "POST":
		switch {
		// - end session
		case h.Routes.Logout.MatchString(uri):
			herr = h.logout(ctx, w, r)
		// - record arrival
		case h.Routes.ClockIn.MatchString(uri):
			herr = h.clockIn(ctx, w, r)
		// - record departure
		case h.Routes.ClockOut.MatchString(uri):
			herr = h.clockOut(ctx, w, r)
		// - early clock in exception
		case h.Routes.EarlyClockIn.MatchString(uri):
			herr = h.requestEarlyClockIn(ctx, w, r)
		// - overtime exception
		case h.Routes.Overtime.MatchString(uri):
			herr = h.requestOvertime(ctx, w, r)
		// - draw stock
		case h.Routes.InventoryUse.MatchString(uri):
			herr = h.useInventory(ctx, w, r)
		// - deliver a message
		case h.Routes.Messages.MatchString(uri):
			herr = h.sendMessage(ctx, w, r)
		// - read receipt
		case h.Routes.MessageRead.MatchString(uri):
			ctx = parseCaptureGroups(ctx, r.URL.Path, h.Routes.MessageRead)
			herr = h.markMessageRead(ctx, w, r)
		// - decide an exception request
		case h.Routes.AdminApproval.MatchString(uri):
			ctx = parseCaptureGroups(ctx, r.URL.Path, h.Routes.AdminApproval)
			herr = h.processApproval(ctx, w, r)
		// - administrative password reset
		case h.Routes.AdminEmployeePassword.MatchString(uri):
			ctx = parseCaptureGroups(ctx, r.URL.Path, h.Routes.AdminEmployeePassword)
			herr = h.setEmployeePassword(ctx, w, r)
		default:
			herr = do404(ctx, w, r)
			h.publishError(gem, herr)
		}
	default:
		herr = do404(ctx, w, r)
		h.publishError(gem, herr)
	}

	if herr != nil {
		sendAppErrorResponse(logger, &w, herr)
	} else {
		countOKResponse(logger)
	}

	if h.Tracker != nil {
		autoscale.CloudWatchTransaction(beginTSInMS, util.NowMS(), h.Tracker)
	}
}

// FetchCaller resolves the session token presented with the request into the
// signed in employee, and extends the idle window when it succeeds.
func (h AppServer) FetchCaller(ctx context.Context, r *http.Request) (protocol.Caller, error) {
	var caller protocol.Caller
	token := r.Header.Get("X-Session-Token")
	if len(token) == 0 {
		// The form UI sends the token as a cookie instead.
		if c, err := r.Cookie("token"); err == nil {
			token = c.Value
		}
	}
	if len(token) == 0 {
		return caller, fmt.Errorf("no session token presented")
	}
	sess, err := h.SessionStore.Get(ctx, token)
	if err != nil {
		return caller, err
	}
	if err := h.SessionStore.Touch(ctx, token); err != nil {
		return caller, err
	}
	caller.ID = sess.EmployeeID
	caller.EmployeeCode = sess.EmployeeCode
	caller.Name = sess.Name
	caller.Role = sess.Role
	caller.SessionToken = token
	return caller, nil
}

func (h *AppServer) publishError(gem events.GEM, herr *AppError) {
	gem.Payload.Audit = audit.WithActionResult(gem.Payload.Audit, "FAILURE")
	gem.Payload.Audit = audit.WithActionTargetMessages(gem.Payload.Audit, strconv.Itoa(herr.Code))
	if herr.Error != nil {
		errMsg := herr.Error.Error()
		if len(errMsg) > 0 {
			gem.Payload.Audit = audit.WithActionTargetMessages(gem.Payload.Audit, errMsg)
		}
	}
	if len(herr.Msg) > 0 {
		gem.Payload.Audit = audit.WithActionTargetMessages(gem.Payload.Audit, herr.Msg)
	}
	h.EventQueue.Publish(gem)
}
func (h *AppServer) publishSuccess(gem events.GEM, w http.ResponseWriter) {
	gem.Payload.Audit = audit.WithActionResult(gem.Payload.Audit, "SUCCESS")
	status := w.Header().Get("Status")
	if len(status) == 0 {
		status = "200"
	}
	gem.Payload.Audit = audit.WithActionTargetMessages(gem.Payload.Audit, status)
	h.EventQueue.Publish(gem)
}

func newRequestID() string {
	return config.RandomID()
}

// ContextWithSession puts the request correlation id on the context, used for log correlation
func ContextWithSession(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, SessionID, requestID)
}

// ContextWithCaller returns a new Context object with a Caller value set. The const CallerVal acts
// as the key that maps to the caller value.
func ContextWithCaller(ctx context.Context, caller protocol.Caller) context.Context {
	return context.WithValue(ctx, CallerVal, caller)
}

// ContextWithGEM attaches a GEM to the context object.
func ContextWithGEM(ctx context.Context, gem events.GEM) context.Context {
	return context.WithValue(ctx, GEMVal, gem)
}

// ContextWithDAO puts the DAO on the context so handlers stay testable against fakes
func ContextWithDAO(ctx context.Context, d dao.DAO) context.Context {
	return context.WithValue(ctx, DAO, d)
}

// DAOFromContext returns the DAO associated with the context
func DAOFromContext(ctx context.Context) dao.DAO {
	d, ok := ctx.Value(DAO).(dao.DAO)
	if !ok {
		//Should be *completely* impossible as setting these up are preconditions setup in an obvious location
		LoggerFromContext(ctx).Error("cannot get dao from context")
	}
	return d
}

// CallerFromContext extracts a Caller from a context, if set.
func CallerFromContext(ctx context.Context) (protocol.Caller, bool) {
	// ctx.Value returns nil if ctx has no value for the key
	// the Caller type assertion returns ok=false for nil.
	caller, ok := ctx.Value(CallerVal).(protocol.Caller)
	return caller, ok
}

// GEMFromContext extracts a GEM from a context, if set.
func GEMFromContext(ctx context.Context) (events.GEM, bool) {
	gem, ok := ctx.Value(GEMVal).(events.GEM)
	return gem, ok
}

// ContextWithLogger puts the logger on the context
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, Logger, logger)
}

// SessionIDFromContext extracts the request correlation id from the context
func SessionIDFromContext(ctx context.Context) string {
	requestID, ok := ctx.Value(SessionID).(string)
	if !ok {
		return "unknown"
	}
	return requestID
}

// LoggerFromContext gets a zap logger from our context
func LoggerFromContext(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(Logger).(*zap.Logger)
	if !ok {
		log.Print("!!! Any ctx object you get should have a logger set on it")
		return config.RootLogger
	}
	return logger
}

func parseCaptureGroups(ctx context.Context, path string, regex *regexp.Regexp) context.Context {
	captured := util.GetRegexCaptureGroups(path, regex)
	return context.WithValue(ctx, CaptureGroupsVal, captured)
}

// CaptureGroupsFromContext extracts the capture groups from a context, if set
func CaptureGroupsFromContext(ctx context.Context) (map[string]string, bool) {
	captured, ok := ctx.Value(CaptureGroupsVal).(map[string]string)
	return captured, ok
}

func do404(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	caller, ok := CallerFromContext(ctx)
	who := "anonymous"
	if ok {
		who = caller.EmployeeCode
	}
	uri := r.URL.Path
	msg := who + " from address " + r.RemoteAddr + " using " + r.UserAgent() + " unhandled operation " + r.Method + " " + uri
	return NewAppError(404, nil, fmt.Sprintf("Resource not found %s", msg))
}

// jsonResponse writes a response, and should be called for all HTTP handlers that return JSON.
func jsonResponse(w http.ResponseWriter, i interface{}) {
	w.Header().Set("Content-Type", "application/json")
	jsonData, _ := json.MarshalIndent(i, "", "  ")
	w.Write(jsonData)
}

// jsonResponseWithCode writes a JSON body after a non-200 status such as 201 or 202.
func jsonResponseWithCode(w http.ResponseWriter, i interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Status", strconv.Itoa(code))
	w.WriteHeader(code)
	jsonData, _ := json.MarshalIndent(i, "", "  ")
	w.Write(jsonData)
}

// errorResponse writes the terse machine readable error body.
func errorResponse(w http.ResponseWriter, code int, msg string) {
	if code == http.StatusNoContent {
		w.WriteHeader(code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	jsonData, _ := json.MarshalIndent(struct {
		Error string `json:"error"`
	}{Error: msg}, "", "  ")
	w.Write(jsonData)
}

// newGUID is a helper that ignores the error from util.NewGUID. If that function ever returns
// an error, something is seriously wrong with underlying hardware.
func newGUID() string {
	guid, err := util.NewGUID()
	if err != nil {
		log.Printf("could not create GUID: %s", err.Error())
	}
	return guid
}

func resolvePath(p string) (string, error) {
	if len(p) == 0 {
		return p, nil
	}
	if !path.IsAbs(p) {
		wd, err := os.Getwd()
		if err != nil {
			return p, err
		}
		return path.Clean(path.Join(wd, p)), nil
	}
	return p, nil
}

// StaticRx statically references compiled regular expressions.
type StaticRx struct {
	Home                   *regexp.Regexp
	HomeUI                 *regexp.Regexp
	Favicon                *regexp.Regexp
	Stats                  *regexp.Regexp
	StaticFiles            *regexp.Regexp
	Login                  *regexp.Regexp
	Logout                 *regexp.Regexp
	CheckSession           *regexp.Regexp
	ClockIn                *regexp.Regexp
	ClockOut               *regexp.Regexp
	AttendanceToday        *regexp.Regexp
	EarlyClockIn           *regexp.Regexp
	Overtime               *regexp.Regexp
	Inventory              *regexp.Regexp
	InventoryUse           *regexp.Regexp
	Payslip                *regexp.Regexp
	Messages               *regexp.Regexp
	MessageRead            *regexp.Regexp
	AdminArea              *regexp.Regexp
	AdminDashboard         *regexp.Regexp
	AdminApprovals         *regexp.Regexp
	AdminApproval          *regexp.Regexp
	AdminEmployees         *regexp.Regexp
	AdminEmployeePassword  *regexp.Regexp
	AdminEmployeePayslip   *regexp.Regexp
	AdminEmployeeInventory *regexp.Regexp
	AdminLogs              *regexp.Regexp
}

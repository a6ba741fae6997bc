package client

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/bbyours/attendance-server/protocol"
)

// Attendance defines operations for our client.
type Attendance interface {
	AttendanceToday() (protocol.AttendanceToday, error)
	CheckSession() (protocol.SessionResponse, error)
	ClockIn() (protocol.ClockInResponse, error)
	ClockOut() (protocol.ClockOutResponse, error)
	Dashboard() (protocol.AdminDashboard, error)
	EmployeeInventory(employeeCode string, paging protocol.PagingRequest) (protocol.InventoryTransactionResultset, error)
	EmployeePayslips(employeeCode string) ([]protocol.Payslip, error)
	GetHttpClient() *http.Client
	GetInventory(paging protocol.PagingRequest) (protocol.InventoryResultset, error)
	GetMessages(paging protocol.PagingRequest) (protocol.MessageResultset, error)
	GetPayslip(period string) (protocol.Payslip, error)
	ListEmployees(paging protocol.PagingRequest) (protocol.EmployeeResultset, error)
	Login(employeeID string, password string) (protocol.LoginResponse, error)
	Logout() error
	MarkMessageRead(id string) (protocol.Message, error)
	PendingApprovals(paging protocol.PagingRequest) (protocol.PendingApprovalResultset, error)
	Ping() (bool, error)
	ProcessApproval(id string, approve bool) (protocol.ProcessApprovalResponse, error)
	RecentLogs(limit int) (protocol.SecurityLogResultset, error)
	RequestEarlyClockIn(req protocol.ExceptionRequest) (protocol.ExceptionResponse, error)
	RequestOvertime(req protocol.ExceptionRequest) (protocol.ExceptionResponse, error)
	SendMessage(req protocol.SendMessageRequest) (protocol.SendMessageResponse, error)
	SessionToken() string
	SetEmployeePassword(employeeCode string, password string) error
	UseInventory(req protocol.UseInventoryRequest) (protocol.UseInventoryResponse, error)
}

// Client implements Attendance.
type Client struct {
	httpClient *http.Client
	url        string
	// Verbose will print extra debug information if true.
	Verbose bool
	Conf    Config
	// token is the session token retained from the last successful Login.
	token string
}

// Verify that Client implements Attendance.
var _ Attendance = (*Client)(nil)

// Config defines the bare minimum that must be statically configured for a Client.
type Config struct {
	// Remote specifies the full API prefix: http(s)://{host}:{port}/{mountPoint}.
	// Actual attendance API endpoints are appended to this string.
	Remote string
	// Trust is the path to a PEM encoded bundle of certificate authorities to
	// accept from an https remote. Ignored for plain http remotes. When empty
	// the system roots are used.
	Trust      string
	SkipVerify bool // DO NOT SET THIS. Set ServerName to match CN of the Remote
	ServerName string
}

// ApprovalRequiredError is returned by ClockIn and ClockOut when the clock
// action falls outside its permitted window and an approved exception is
// needed before it can succeed.
type ApprovalRequiredError struct {
	Detail protocol.ApprovalRequired
}

func (e *ApprovalRequiredError) Error() string {
	return e.Detail.Message
}

// NewClient instantiates a new Client that implements Attendance. This client
// can be used to drive a running attendance server through its JSON API.
//
// The configuration carries the remote URL prefix and, for https remotes, the
// certificate authorities to trust. Call Login before any operation that
// needs a session.
func NewClient(conf Config) (*Client, error) {
	if len(conf.Remote) == 0 {
		return nil, fmt.Errorf("no remote specified for client")
	}

	var c http.Client
	if strings.HasPrefix(conf.Remote, "https") {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: conf.SkipVerify,
			ServerName:         conf.ServerName,
			MinVersion:         tls.VersionTLS12,
		}
		if len(conf.Trust) > 0 {
			trust, err := ioutil.ReadFile(conf.Trust)
			if err != nil {
				return nil, fmt.Errorf("while opening trust file %s: %v", conf.Trust, err)
			}
			caPool := x509.NewCertPool()
			if caPool.AppendCertsFromPEM(trust) == false {
				return nil, fmt.Errorf("no certificates listed in trust file %s", conf.Trust)
			}
			tlsConfig.RootCAs = caPool
		}
		c.Transport = &http.Transport{TLSClientConfig: tlsConfig}
	}

	return &Client{&c, strings.TrimSuffix(conf.Remote, "/"), false, conf, ""}, nil
}

// AttendanceToday fetches the caller's attendance record for the current day.
func (c *Client) AttendanceToday() (protocol.AttendanceToday, error) {
	uri := c.url + "/api/attendance/today"
	var ret protocol.AttendanceToday

	resp, err := c.doGet(uri, nil)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// CheckSession reports whether the retained session token is still live on
// the server. Checking also counts as activity against the idle timer.
func (c *Client) CheckSession() (protocol.SessionResponse, error) {
	uri := c.url + "/api/session"
	var ret protocol.SessionResponse

	resp, err := c.doGet(uri, nil)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// ClockIn stamps the signed in employee present for today. When the current
// time falls outside the early window the server refuses with an
// ApprovalRequiredError, and the caller should submit an early clock in
// exception through RequestEarlyClockIn instead.
func (c *Client) ClockIn() (protocol.ClockInResponse, error) {
	uri := c.url + "/api/attendance/clockin"
	var ret protocol.ClockInResponse

	resp, err := c.doPost(uri, nil)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if c.Verbose {
		data, _ := httputil.DumpResponse(resp, true)
		fmt.Printf("%s", string(data))
	}

	if resp.StatusCode == http.StatusConflict {
		return ret, conflictError(resp)
	}
	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// ClockOut closes today's attendance record. When the current time falls
// beyond the overtime window the server refuses with an
// ApprovalRequiredError until an overtime exception is approved.
func (c *Client) ClockOut() (protocol.ClockOutResponse, error) {
	uri := c.url + "/api/attendance/clockout"
	var ret protocol.ClockOutResponse

	resp, err := c.doPost(uri, nil)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if c.Verbose {
		data, _ := httputil.DumpResponse(resp, true)
		fmt.Printf("%s", string(data))
	}

	if resp.StatusCode == http.StatusConflict {
		return ret, conflictError(resp)
	}
	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// Dashboard fetches the admin landing page counters. Admin only.
func (c *Client) Dashboard() (protocol.AdminDashboard, error) {
	uri := c.url + "/api/admin/dashboard"
	var ret protocol.AdminDashboard

	resp, err := c.doGet(uri, nil)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// EmployeeInventory lists the draws recorded against stock by the named
// employee, newest first. Admin only.
func (c *Client) EmployeeInventory(employeeCode string, paging protocol.PagingRequest) (protocol.InventoryTransactionResultset, error) {
	uri := c.url + "/api/admin/employees/" + url.PathEscape(employeeCode) + "/inventory"
	uri = pagedURI(uri, paging)
	var ret protocol.InventoryTransactionResultset

	resp, err := c.doGet(uri, nil)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// EmployeePayslips lists every payslip on record for the named employee.
// Admin only.
func (c *Client) EmployeePayslips(employeeCode string) ([]protocol.Payslip, error) {
	uri := c.url + "/api/admin/employees/" + url.PathEscape(employeeCode) + "/payslip"
	var ret []protocol.Payslip

	resp, err := c.doGet(uri, nil)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// GetHttpClient returns the underlying http.Client so callers can adjust
// timeouts or transports.
func (c *Client) GetHttpClient() *http.Client {
	return c.httpClient
}

// GetInventory lists the products stocked for employee use under the given
// paging constraints. A zero PagingRequest yields the first page of twenty.
func (c *Client) GetInventory(paging protocol.PagingRequest) (protocol.InventoryResultset, error) {
	uri := pagedURI(c.url+"/api/inventory", paging)
	var ret protocol.InventoryResultset

	resp, err := c.doGet(uri, nil)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// GetMessages lists messages delivered to the signed in employee, newest
// first, under the given paging constraints.
func (c *Client) GetMessages(paging protocol.PagingRequest) (protocol.MessageResultset, error) {
	uri := pagedURI(c.url+"/api/messages", paging)
	var ret protocol.MessageResultset

	resp, err := c.doGet(uri, nil)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// GetPayslip fetches the caller's payslip for the named period, given as
// YYYY-MM. An empty period means the current month.
func (c *Client) GetPayslip(period string) (protocol.Payslip, error) {
	uri := c.url + "/api/payslip"
	if len(period) > 0 {
		uri += "?period=" + url.QueryEscape(period)
	}
	var ret protocol.Payslip

	resp, err := c.doGet(uri, nil)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// ListEmployees lists employee accounts under the given paging constraints.
// Admin only.
func (c *Client) ListEmployees(paging protocol.PagingRequest) (protocol.EmployeeResultset, error) {
	uri := pagedURI(c.url+"/api/admin/employees", paging)
	var ret protocol.EmployeeResultset

	resp, err := c.doGet(uri, nil)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// Login begins a session for the named employee. The returned session token
// is retained on the client and presented on every request that follows,
// until Logout or idle expiry on the server.
func (c *Client) Login(employeeID string, password string) (protocol.LoginResponse, error) {
	uri := c.url + "/api/login"
	var ret protocol.LoginResponse

	resp, err := c.doPost(uri, protocol.LoginRequest{EmployeeID: employeeID, Password: password})
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if c.Verbose {
		data, _ := httputil.DumpResponse(resp, true)
		fmt.Printf("%s", string(data))
	}

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}
	c.token = ret.SessionToken

	return ret, nil
}

// Logout discards the session on the server and forgets the retained token.
func (c *Client) Logout() error {
	uri := c.url + "/api/logout"

	resp, err := c.doPost(uri, nil)
	if err != nil {
		return fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}
	c.token = ""

	return nil
}

// MarkMessageRead records a read receipt for the message with the given id.
// Only the recipient may mark a message read.
func (c *Client) MarkMessageRead(id string) (protocol.Message, error) {
	uri := c.url + "/api/messages/" + url.PathEscape(id) + "/read"
	var ret protocol.Message

	resp, err := c.doPost(uri, nil)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// PendingApprovals lists exception requests awaiting a decision, oldest
// first, under the given paging constraints. Admin only.
func (c *Client) PendingApprovals(paging protocol.PagingRequest) (protocol.PendingApprovalResultset, error) {
	uri := pagedURI(c.url+"/api/admin/approvals", paging)
	var ret protocol.PendingApprovalResultset

	resp, err := c.doGet(uri, nil)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// Ping checks whether the server is responding. No session is required.
func (c *Client) Ping() (bool, error) {
	pingURL := c.url + "/stats"
	req, err := http.NewRequest("GET", pingURL, nil)
	if err != nil {
		return false, fmt.Errorf("error creating request: %v", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()
	return (resp.StatusCode == http.StatusOK), nil
}

// ProcessApproval records the admin decision for the pending approval with
// the given id. Admin only. Deciding an already decided request fails.
func (c *Client) ProcessApproval(id string, approve bool) (protocol.ProcessApprovalResponse, error) {
	uri := c.url + "/api/admin/approvals/" + url.PathEscape(id)
	var ret protocol.ProcessApprovalResponse

	resp, err := c.doPost(uri, protocol.ProcessApprovalRequest{Approve: approve})
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if c.Verbose {
		data, _ := httputil.DumpResponse(resp, true)
		fmt.Printf("%s", string(data))
	}

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// RecentLogs lists up to limit security log entries, newest first. A limit
// of zero takes the server default of fifty. Admin only.
func (c *Client) RecentLogs(limit int) (protocol.SecurityLogResultset, error) {
	uri := c.url + "/api/admin/logs"
	if limit > 0 {
		uri += fmt.Sprintf("?limit=%d", limit)
	}
	var ret protocol.SecurityLogResultset

	resp, err := c.doGet(uri, nil)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// RequestEarlyClockIn asks for an early clock in exception. Submit once with
// no passcode to have one emailed to the address on record, then again
// carrying the passcode to queue the request for an admin decision.
func (c *Client) RequestEarlyClockIn(req protocol.ExceptionRequest) (protocol.ExceptionResponse, error) {
	return c.requestException(c.url+"/api/attendance/early-clockin", req)
}

// RequestOvertime asks for an overtime exception. The passcode flow is the
// same as RequestEarlyClockIn.
func (c *Client) RequestOvertime(req protocol.ExceptionRequest) (protocol.ExceptionResponse, error) {
	return c.requestException(c.url+"/api/attendance/overtime", req)
}

func (c *Client) requestException(uri string, req protocol.ExceptionRequest) (protocol.ExceptionResponse, error) {
	var ret protocol.ExceptionResponse

	resp, err := c.doPost(uri, req)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if c.Verbose {
		data, _ := httputil.DumpResponse(resp, true)
		fmt.Printf("%s", string(data))
	}

	// A passcode delivery answers 202, a queued request answers 201.
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusCreated {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// SendMessage delivers a message. Employees always reach the admin
// regardless of the recipient given. Admins may name an employee code, or
// broadcast by addressing ALL EMPLOYEES.
func (c *Client) SendMessage(req protocol.SendMessageRequest) (protocol.SendMessageResponse, error) {
	uri := c.url + "/api/messages"
	var ret protocol.SendMessageResponse

	resp, err := c.doPost(uri, req)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if c.Verbose {
		data, _ := httputil.DumpResponse(resp, true)
		fmt.Printf("%s", string(data))
	}

	if resp.StatusCode != http.StatusCreated {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

// SessionToken returns the token retained from the last successful Login, or
// an empty string when signed out.
func (c *Client) SessionToken() string {
	return c.token
}

// SetEmployeePassword replaces the named employee's password. Admin only.
// The server enforces the exact password length.
func (c *Client) SetEmployeePassword(employeeCode string, password string) error {
	uri := c.url + "/api/admin/employees/" + url.PathEscape(employeeCode) + "/password"

	resp, err := c.doPost(uri, protocol.SetPasswordRequest{Password: password})
	if err != nil {
		return fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}

	return nil
}

// UseInventory records a draw against stock for the signed in employee.
func (c *Client) UseInventory(req protocol.UseInventoryRequest) (protocol.UseInventoryResponse, error) {
	uri := c.url + "/api/inventory/use"
	var ret protocol.UseInventoryResponse

	resp, err := c.doPost(uri, req)
	if err != nil {
		return ret, fmt.Errorf("error performing request: %v", err)
	}
	defer resp.Body.Close()

	if c.Verbose {
		data, _ := httputil.DumpResponse(resp, true)
		fmt.Printf("%s", string(data))
	}

	if resp.StatusCode != http.StatusOK {
		return ret, errorFromResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return ret, fmt.Errorf("could not decode response: %v", err)
	}

	return ret, nil
}

func (c *Client) doGet(uri string, body interface{}) (*http.Response, error) {
	return c.doMethod("GET", uri, body)
}
func (c *Client) doPost(uri string, body interface{}) (*http.Response, error) {
	return c.doMethod("POST", uri, body)
}
func (c *Client) doMethod(method string, uri string, body interface{}) (*http.Response, error) {
	var err error
	var jsonBody []byte
	var req *http.Request
	if body != nil {
		jsonBody, err = json.MarshalIndent(body, "", "    ")
		if err != nil {
			return nil, fmt.Errorf("could not marshal json body: %v", err)
		}
		req, err = http.NewRequest(method, uri, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(method, uri, nil)
	}
	if err != nil {
		return nil, err
	}

	if c.token != "" {
		req.Header.Set("X-Session-Token", c.token)
	}

	return c.httpClient.Do(req)
}

func errorFromResponse(resp *http.Response) error {

	statusCode := resp.StatusCode
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return fmt.Errorf("%d %s", statusCode, strings.TrimSpace(string(body)))
}

// conflictError classifies a conflict response. The clock handlers answer
// with an ApprovalRequired document when an exception request could unblock
// the caller. Other conflicts carry the plain error body.
func conflictError(resp *http.Response) error {
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var detail protocol.ApprovalRequired
	if jsonErr := json.Unmarshal(body, &detail); jsonErr == nil && detail.RequiresApproval {
		return &ApprovalRequiredError{Detail: detail}
	}
	return fmt.Errorf("%d %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

// pagedURI renders paging constraints onto a base uri. Zero values defer to
// the server defaults of page one, twenty rows.
func pagedURI(uri string, paging protocol.PagingRequest) string {
	return fmt.Sprintf("%s?pageNumber=%d&pageSize=%d", uri, paging.PageNumber, paging.PageSize)
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/filingkart/filingkart/internal/catalog"
	"github.com/filingkart/filingkart/internal/wizard"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

type fakeProvider struct {
	user *wizard.User
	err  error
}

func (f *fakeProvider) CurrentUser(ctx context.Context) (*wizard.User, error) {
	return f.user, f.err
}

type fakeUploader struct {
	err error
}

func (f *fakeUploader) Upload(ctx context.Context, category, filename string, content io.Reader) (*wizard.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &wizard.UploadResult{
		FileID:  "file-1",
		FileURL: "/api/uploads/" + category + "/" + filename,
	}, nil
}

type fakeSubmitter struct {
	err      error
	payloads []wizard.SubmissionPayload
}

func (f *fakeSubmitter) Submit(ctx context.Context, payload wizard.SubmissionPayload) (wizard.SubmissionReceipt, error) {
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return wizard.SubmissionReceipt{}, f.err
	}
	return wizard.SubmissionReceipt{ID: payload.SubmissionID}, nil
}

func testCatalog(t *testing.T) *catalog.Registry {
	reg := catalog.NewRegistry()
	err := reg.Register(catalog.Service{
		Definition: wizard.Definition{
			ServiceID:        "gst-registration",
			Title:            "GST Registration",
			SubmissionPrefix: "GST",
			Steps: []wizard.StepDefinition{
				{
					Index: 0,
					Title: "Business Details",
					Fields: []wizard.FieldSchema{
						{Path: "businessName", Label: "Business Name", Kind: wizard.FieldKindText},
						{Path: "email", Label: "Email", Kind: wizard.FieldKindEmail},
					},
				},
				{
					Index: 1,
					Title: "Documents",
					Fields: []wizard.FieldSchema{
						{Path: "panNumber", Label: "PAN Number", Kind: wizard.FieldKindText},
					},
					DocumentSlots: []wizard.DocumentSlot{
						{ID: "pan_card", Label: "PAN Card"},
					},
				},
			},
			Plans: []wizard.PlanDefinition{
				{ID: "standard", Title: "Standard", Price: 999},
			},
			Rules: wizard.PlanRules{Default: "standard"},
		},
		Summary:  "Register for GST",
		Category: "tax",
	})
	assert.NoError(t, err)
	return reg
}

type testEnv struct {
	router    *httptest.Server
	provider  *fakeProvider
	submitter *fakeSubmitter
	uploader  *fakeUploader
	sessions  *wizard.Registry
}

func setupEnv(t *testing.T) *testEnv {
	provider := &fakeProvider{user: &wizard.User{ID: "user-1", Email: "a@b.c", Name: "A"}}
	uploader := &fakeUploader{}
	submitter := &fakeSubmitter{}
	sessions := wizard.NewRegistry(provider, time.Hour)

	handler := NewHandler(testCatalog(t), sessions, provider, uploader, submitter, 5*time.Second)

	router := newTestRouter()
	handler.RegisterRoutes(router.Group("/api"))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{
		router:    server,
		provider:  provider,
		submitter: submitter,
		uploader:  uploader,
		sessions:  sessions,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, e.router.URL+path, reader)
	assert.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func (e *testEnv) uploadDocument(t *testing.T, sessionID, slotID string) *http.Response {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "pan.pdf")
	assert.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 test"))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	url := fmt.Sprintf("%s/api/sessions/%s/documents/%s", e.router.URL, sessionID, slotID)
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	resp.Body.Close()
	return resp
}

func TestListAndGetServices(t *testing.T) {
	env := setupEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/services", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	services := body["services"].([]any)
	assert.Len(t, services, 1)

	resp, body = env.do(t, http.MethodGet, "/api/services/gst-registration", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "GST Registration", body["title"])
	assert.Equal(t, float64(999), body["fromPrice"])

	resp, _ = env.do(t, http.MethodGet, "/api/services/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOpenSession_Unauthenticated(t *testing.T) {
	env := setupEnv(t)
	env.provider.user = nil

	resp, _ := env.do(t, http.MethodPost, "/api/services/gst-registration/sessions", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWizardFlow(t *testing.T) {
	env := setupEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/services/gst-registration/sessions", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	sessionID := body["sessionId"].(string)
	assert.NotEmpty(t, sessionID)

	base := "/api/sessions/" + sessionID

	// Advancing without filling the step fails validation
	resp, body = env.do(t, http.MethodPost, base+"/next", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "businessName")
	assert.Contains(t, errs, "email")
	assert.Equal(t, float64(0), body["stepIndex"])

	resp, _ = env.do(t, http.MethodPut, base+"/fields", map[string]any{
		"businessName": "Sharma Foods",
		"email":        "priya@example.com",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodPost, base+"/next", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["stepIndex"])
	assert.NotEmpty(t, body["submissionId"])
	submissionID := body["submissionId"].(string)

	// Submitting without the PAN upload is refused before any network call
	resp, _ = env.do(t, http.MethodPut, base+"/fields", map[string]any{"panNumber": "ABCDE1234F"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, env.submitter.payloads)

	uploadResp := env.uploadDocument(t, sessionID, "pan_card")
	assert.Equal(t, http.StatusOK, uploadResp.StatusCode)

	resp, body = env.do(t, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, submissionID, body["applicationId"])

	assert.Len(t, env.submitter.payloads, 1)
	payload := env.submitter.payloads[0]
	assert.Equal(t, submissionID, payload.SubmissionID)
	assert.Equal(t, "gst-registration", payload.ServiceID)
	assert.Equal(t, wizard.PaymentSuccessful, payload.Status)

	// Session is gone after a successful submission
	resp, _ = env.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmit_RejectionIsRetryable(t *testing.T) {
	env := setupEnv(t)
	env.submitter.err = errors.New("backend says no")

	resp, body := env.do(t, http.MethodPost, "/api/services/gst-registration/sessions", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	sessionID := body["sessionId"].(string)
	base := "/api/sessions/" + sessionID

	env.do(t, http.MethodPut, base+"/fields", map[string]any{
		"businessName": "Sharma Foods",
		"email":        "priya@example.com",
		"panNumber":    "ABCDE1234F",
	})
	resp, _ = env.do(t, http.MethodPost, base+"/next", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	env.uploadDocument(t, sessionID, "pan_card")

	resp, body = env.do(t, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "backend says no", body["error"])

	// Everything is retained; the retry reuses the same submission id
	env.submitter.err = nil
	resp, body = env.do(t, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, env.submitter.payloads, 2)
	assert.Equal(t, env.submitter.payloads[0].SubmissionID, env.submitter.payloads[1].SubmissionID)
}

func TestSession_ForeignUserSeesNotFound(t *testing.T) {
	env := setupEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/services/gst-registration/sessions", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	sessionID := body["sessionId"].(string)

	env.provider.user = &wizard.User{ID: "user-2"}
	resp, _ = env.do(t, http.MethodGet, "/api/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBack_FromFirstStep(t *testing.T) {
	env := setupEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/services/gst-registration/sessions", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	sessionID := body["sessionId"].(string)

	resp, _ = env.do(t, http.MethodPost, "/api/sessions/"+sessionID+"/back", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSelectAndClearPlan(t *testing.T) {
	env := setupEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/services/gst-registration/sessions", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	sessionID := body["sessionId"].(string)
	base := "/api/sessions/" + sessionID

	resp, body = env.do(t, http.MethodPost, base+"/plan", map[string]any{"plan": "standard"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["explicitPlan"])

	resp, _ = env.do(t, http.MethodPost, base+"/plan", map[string]any{"plan": "platinum"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.do(t, http.MethodDelete, base+"/plan", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["explicitPlan"])
}

func TestUploadDocument_Failure(t *testing.T) {
	env := setupEnv(t)
	env.uploader.err = errors.New("storage unavailable")

	resp, body := env.do(t, http.MethodPost, "/api/services/gst-registration/sessions", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	sessionID := body["sessionId"].(string)

	uploadResp := env.uploadDocument(t, sessionID, "pan_card")
	assert.Equal(t, http.StatusBadGateway, uploadResp.StatusCode)

	// The slot reports the error state in the snapshot
	resp, body = env.do(t, http.MethodGet, "/api/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	uploadsView := body["uploads"].(map[string]any)
	slot := uploadsView["pan_card"].(map[string]any)
	assert.Equal(t, string(wizard.UploadStatusError), slot["status"])
}

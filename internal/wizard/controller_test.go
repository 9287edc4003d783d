package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeSubmitter implements Submitter and records every call.
type fakeSubmitter struct {
	receipt  SubmissionReceipt
	err      error
	calls    int
	payloads []SubmissionPayload
}

func (f *fakeSubmitter) Submit(ctx context.Context, payload SubmissionPayload) (SubmissionReceipt, error) {
	f.calls++
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return SubmissionReceipt{}, f.err
	}
	return f.receipt, nil
}

func opcDefinition() Definition {
	return Definition{
		ServiceID:        "opc_registration",
		Title:            "One Person Company Registration",
		SubmissionPrefix: "OPC",
		Steps: []StepDefinition{
			{
				Index: 0,
				Title: "Director Details",
				Fields: []FieldSchema{
					{Path: "director.name", Label: "Director Name", Kind: FieldKindText},
					{Path: "director.email", Label: "Email", Kind: FieldKindEmail},
				},
			},
			{
				Index: 1,
				Title: "Documents & Payment",
				Fields: []FieldSchema{
					{Path: "companyNames.0", Label: "Proposed Company Name", Kind: FieldKindText},
				},
				DocumentSlots: []DocumentSlot{
					{ID: "pan_card", Label: "PAN Card"},
				},
			},
		},
		Plans: []PlanDefinition{
			{ID: "standard", Title: "Standard", Price: 7999},
			{ID: "premium", Title: "Premium", Price: 12999},
		},
		Rules: PlanRules{Default: "standard"},
	}
}

func newTestController(def Definition, submitter Submitter) (*Controller, *fakeUploader) {
	uploader := &fakeUploader{
		result: &UploadResult{FileURL: "https://x/1.pdf", FileID: "1", OriginalName: "pan.pdf"},
	}
	coordinator := NewUploadCoordinator(uploader, 0)
	controller := NewController(def, coordinator, submitter, &User{ID: "user-1", Email: "asha@example.in"})
	return controller, uploader
}

func fillStepOne(t *testing.T, c *Controller) {
	t.Helper()
	assert.NoError(t, c.SetField("director.name", "Asha"))
	assert.NoError(t, c.SetField("director.email", "asha@example.in"))
}

func TestControllerNextAdvancesWhenValid(t *testing.T) {
	controller, _ := newTestController(opcDefinition(), &fakeSubmitter{})
	fillStepOne(t, controller)

	assert.NoError(t, controller.Next())
	assert.Equal(t, 1, controller.StepIndex())
	assert.Empty(t, controller.Errors())
}

func TestControllerNextBlocksOnMissingField(t *testing.T) {
	controller, _ := newTestController(opcDefinition(), &fakeSubmitter{})
	assert.NoError(t, controller.SetField("director.name", ""))
	assert.NoError(t, controller.SetField("director.email", "asha@example.in"))

	err := controller.Next()
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, 0, controller.StepIndex())
	assert.Contains(t, controller.Errors(), "director.name")
	assert.NotContains(t, controller.Errors(), "director.email")
}

func TestControllerBackBypassesValidation(t *testing.T) {
	controller, _ := newTestController(opcDefinition(), &fakeSubmitter{})
	fillStepOne(t, controller)
	assert.NoError(t, controller.Next())

	// Invalidate a step-one field, then go back: allowed without checks.
	assert.NoError(t, controller.SetField("director.name", ""))
	assert.NoError(t, controller.Back())
	assert.Equal(t, 0, controller.StepIndex())
	assert.Empty(t, controller.Errors())

	assert.ErrorIs(t, controller.Back(), ErrFirstStep)
}

func TestControllerSubmissionIDGeneratedOnEnteringFinalStep(t *testing.T) {
	controller, _ := newTestController(opcDefinition(), &fakeSubmitter{})
	fixed := time.UnixMilli(1_700_000_000_000)
	controller.now = func() time.Time { return fixed }

	assert.Empty(t, controller.SubmissionID())
	fillStepOne(t, controller)
	assert.NoError(t, controller.Next())
	assert.Equal(t, "OPC-1700000000000", controller.SubmissionID())

	// Navigating back and forward keeps the same id; two rapid submits
	// cannot mint distinct ids.
	assert.NoError(t, controller.Back())
	assert.NoError(t, controller.Next())
	assert.Equal(t, "OPC-1700000000000", controller.SubmissionID())
}

func TestControllerSingleStepMintsSubmissionIDImmediately(t *testing.T) {
	def := Definition{
		ServiceID:        "gst_registration",
		Title:            "GST Registration",
		SubmissionPrefix: "GST",
		Steps: []StepDefinition{
			{
				Index: 0,
				Title: "Business Details",
				Fields: []FieldSchema{
					{Path: "businessName", Label: "Business Name", Kind: FieldKindText},
				},
			},
		},
		Plans: []PlanDefinition{{ID: "standard", Title: "Standard", Price: 999}},
		Rules: PlanRules{Default: "standard"},
	}
	submitter := &fakeSubmitter{receipt: SubmissionReceipt{ID: "app-1"}}
	controller, _ := newTestController(def, submitter)

	// A one-step service starts on its final step, so the id exists
	// before any navigation.
	assert.NotEmpty(t, controller.SubmissionID())

	assert.NoError(t, controller.SetField("businessName", "Alpha Traders"))
	_, err := controller.Submit(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, controller.SubmissionID(), submitter.payloads[0].SubmissionID)
}

func TestControllerSubmitBlockedWithoutDocuments(t *testing.T) {
	submitter := &fakeSubmitter{receipt: SubmissionReceipt{ID: "app-1"}}
	controller, _ := newTestController(opcDefinition(), submitter)
	fillStepOne(t, controller)
	assert.NoError(t, controller.Next())
	assert.NoError(t, controller.SetField("companyNames.0", "Alpha Pvt Ltd"))

	_, err := controller.Submit(context.Background())
	assert.ErrorIs(t, err, ErrDocumentsIncomplete)
	// Blocked client-side: the collaborator must not have been called.
	assert.Equal(t, 0, submitter.calls)
	assert.Equal(t, PhaseStep, controller.Phase())
}

func TestControllerSubmitNotOnFinalStep(t *testing.T) {
	submitter := &fakeSubmitter{}
	controller, _ := newTestController(opcDefinition(), submitter)

	_, err := controller.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotOnFinalStep)
	assert.Equal(t, 0, submitter.calls)
}

func prepareSubmittable(t *testing.T, controller *Controller) {
	t.Helper()
	fillStepOne(t, controller)
	assert.NoError(t, controller.Next())
	assert.NoError(t, controller.SetField("companyNames.0", "Alpha Pvt Ltd"))
	_, err := controller.Uploads().BeginUpload(context.Background(), "pan_card", "opc_registration", "pan.pdf", strings.NewReader("%PDF"))
	assert.NoError(t, err)
}

func TestControllerSubmitSuccess(t *testing.T) {
	submitter := &fakeSubmitter{receipt: SubmissionReceipt{ID: "app-1"}}
	controller, _ := newTestController(opcDefinition(), submitter)
	prepareSubmittable(t, controller)

	receipt, err := controller.Submit(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "app-1", receipt.ID)
	assert.Equal(t, PhaseSubmitted, controller.Phase())

	payload := submitter.payloads[0]
	assert.Equal(t, "opc_registration", payload.ServiceID)
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, PlanID("standard"), payload.Plan)
	assert.Equal(t, Money(7999), payload.Price)
	assert.Equal(t, PaymentSuccessful, payload.Status)
	assert.Len(t, payload.Documents, 1)
	assert.Equal(t, "pan_card", payload.Documents[0].SlotID)
	assert.Equal(t, "https://x/1.pdf", payload.Documents[0].FileURL)
	director := payload.FormData["director"].(map[string]any)
	assert.Equal(t, "Asha", director["name"])

	// Terminal: nothing further is accepted.
	_, err = controller.Submit(context.Background())
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.ErrorIs(t, controller.SetField("director.name", "x"), ErrAlreadySubmitted)
}

func TestControllerSubmitFailureIsRetryable(t *testing.T) {
	submitter := &fakeSubmitter{err: errors.New("backend rejected payload")}
	controller, _ := newTestController(opcDefinition(), submitter)
	prepareSubmittable(t, controller)

	_, err := controller.Submit(context.Background())
	assert.Error(t, err)
	assert.Equal(t, PhaseSubmitFailed, controller.Phase())
	// Collaborator message surfaced verbatim, data intact.
	view := controller.Snapshot()
	assert.Equal(t, "backend rejected payload", view.SubmissionError)
	name, ok := controller.Field("director.name")
	assert.True(t, ok)
	assert.Equal(t, "Asha", name)

	// Retry with the same payload succeeds.
	submitter.err = nil
	submitter.receipt = SubmissionReceipt{ID: "app-2"}
	receipt, err := controller.Submit(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "app-2", receipt.ID)
	assert.Equal(t, 2, submitter.calls)
	assert.Equal(t, submitter.payloads[0].SubmissionID, submitter.payloads[1].SubmissionID)
}

func TestControllerBackAfterFailureClearsSubmissionError(t *testing.T) {
	submitter := &fakeSubmitter{err: errors.New("backend rejected payload")}
	controller, _ := newTestController(opcDefinition(), submitter)
	prepareSubmittable(t, controller)

	_, err := controller.Submit(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "backend rejected payload", controller.Snapshot().SubmissionError)

	assert.NoError(t, controller.Back())
	view := controller.Snapshot()
	assert.Equal(t, PhaseStep, view.Phase)
	assert.Empty(t, view.SubmissionError)
}

func TestControllerExplicitPlanFlow(t *testing.T) {
	controller, _ := newTestController(opcDefinition(), &fakeSubmitter{})

	assert.Equal(t, PlanID("standard"), controller.Plan())
	assert.NoError(t, controller.SelectPlan("premium"))
	assert.Equal(t, PlanID("premium"), controller.Plan())

	assert.ErrorIs(t, controller.SelectPlan("nonexistent"), ErrUnknownPlan)

	assert.NoError(t, controller.ClearPlan())
	assert.Equal(t, PlanID("standard"), controller.Plan())
}

func TestControllerSnapshot(t *testing.T) {
	controller, _ := newTestController(opcDefinition(), &fakeSubmitter{})
	fillStepOne(t, controller)
	assert.NoError(t, controller.Next())

	view := controller.Snapshot()
	assert.Equal(t, "opc_registration", view.ServiceID)
	assert.Equal(t, PhaseStep, view.Phase)
	assert.Equal(t, 1, view.StepIndex)
	assert.Equal(t, 2, view.StepCount)
	assert.Equal(t, []string{"pan_card"}, view.RequiredSlots)
	assert.False(t, view.ExplicitPlan)
	assert.NotEmpty(t, view.SubmissionID)
}

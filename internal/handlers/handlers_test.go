package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"supplierhub/internal/auth"
	"supplierhub/internal/blob"
	"supplierhub/internal/handlers"
	"supplierhub/internal/handlers/testutils"
	"supplierhub/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var buyer = auth.User{ID: "user-1", Name: "Anna Smith", Company: "Northwind Apparel"}

func newTestHandler(store *MockStorage) (*handlers.Handler, *blob.Memory) {
	files := blob.NewMemory("http://files.local")
	return handlers.NewHandler(store, handlers.Options{Files: files}), files
}

func addRFQ(store *MockStorage, owner, status string) *models.RFQ {
	r := &models.RFQ{
		ID:       uuid.NewString(),
		Title:    "Cotton hoodies",
		Quantity: 500,
		Deadline: time.Now().AddDate(0, 0, 20),
		Priority: models.PriorityMedium,
		Status:   status,
		OwnerID:  owner,
	}
	store.rfqs[r.ID] = r
	return r
}

func addFactory(store *MockStorage, email string) models.Factory {
	f := models.Factory{
		ID:            uuid.NewString(),
		NameCN:        "广州织造",
		NameEN:        "Guangzhou Weaving",
		City:          "Guangzhou",
		Province:      "Guangdong",
		Segment:       models.SegmentMid,
		ContactPerson: "Li Wei",
		Phone:         "+86 20 1234 5678",
	}
	if email != "" {
		f.Email = &email
	}
	store.factories = append(store.factories, f)
	return f
}

func request(method, target, body string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = testutils.WithUser(req, buyer)
	if params != nil {
		req = testutils.WithChiURLParams(req, params)
	}
	return req
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestPingHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	rr := httptest.NewRecorder()

	handlers.PingHandler(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}

func TestCreateRFQHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantRFQ    string
	}{
		{
			name:       "defaults to draft",
			body:       `{"title":"Linen shirts","quantity":300,"deadline":"2030-01-15"}`,
			wantStatus: http.StatusCreated,
			wantRFQ:    models.RFQStatusDraft,
		},
		{
			name:       "explicit sent",
			body:       `{"title":"Linen shirts","quantity":300,"deadline":"2030-01-15","status":"sent"}`,
			wantStatus: http.StatusCreated,
			wantRFQ:    models.RFQStatusSent,
		},
		{
			name:       "closed is not a creation status",
			body:       `{"title":"Linen shirts","quantity":300,"deadline":"2030-01-15","status":"closed"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing title",
			body:       `{"quantity":300,"deadline":"2030-01-15"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad deadline",
			body:       `{"title":"Linen shirts","quantity":300,"deadline":"15/01/2030"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"title":"Linen shirts","quantity":300,"deadline":"2030-01-15","colour":"red"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStorage()
			h, _ := newTestHandler(store)
			rr := httptest.NewRecorder()

			h.CreateRFQHandler(rr, request(http.MethodPost, "/api/rfqs", tt.body, nil))

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantStatus != http.StatusCreated {
				require.Empty(t, store.rfqs)
				return
			}
			out := decode(t, rr)
			require.Equal(t, tt.wantRFQ, out["status"])
			require.Equal(t, models.PriorityMedium, out["priority"])
			require.Equal(t, buyer.ID, out["ownerId"])
			band := out["deadlineBand"].(map[string]any)
			require.Equal(t, models.BandNormal, band["band"])
		})
	}
}

func TestGetRFQHandler_Scoping(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	mine := addRFQ(store, buyer.ID, models.RFQStatusDraft)
	theirs := addRFQ(store, "someone-else", models.RFQStatusDraft)

	rr := httptest.NewRecorder()
	h.GetRFQHandler(rr, request(http.MethodGet, "/", "", map[string]string{"rfqId": mine.ID}))
	require.Equal(t, http.StatusOK, rr.Code)
	out := decode(t, rr)
	require.Equal(t, mine.ID, out["id"])
	require.EqualValues(t, 0, out["quoteCount"])

	for _, id := range []string{theirs.ID, "not-a-uuid"} {
		rr = httptest.NewRecorder()
		h.GetRFQHandler(rr, request(http.MethodGet, "/", "", map[string]string{"rfqId": id}))
		require.Equal(t, http.StatusNotFound, rr.Code)
	}
}

func TestUpdateRFQHandler_Status(t *testing.T) {
	tests := []struct {
		name       string
		from       string
		body       string
		wantStatus int
		wantRFQ    string
	}{
		{"forward", models.RFQStatusSent, `{"status":"closed"}`, http.StatusOK, models.RFQStatusClosed},
		{"same status", models.RFQStatusSent, `{"status":"sent"}`, http.StatusOK, models.RFQStatusSent},
		{"backwards", models.RFQStatusQuoted, `{"status":"draft"}`, http.StatusConflict, models.RFQStatusQuoted},
		{"unknown", models.RFQStatusDraft, `{"status":"archived"}`, http.StatusBadRequest, models.RFQStatusDraft},
		{"empty title", models.RFQStatusDraft, `{"title":"  "}`, http.StatusBadRequest, models.RFQStatusDraft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStorage()
			h, _ := newTestHandler(store)
			rfq := addRFQ(store, buyer.ID, tt.from)
			rr := httptest.NewRecorder()

			h.UpdateRFQHandler(rr, request(http.MethodPatch, "/", tt.body, map[string]string{"rfqId": rfq.ID}))

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			require.Equal(t, tt.wantRFQ, store.rfqs[rfq.ID].Status)
		})
	}
}

func TestUpdateRFQHandler_MergesFields(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	rfq := addRFQ(store, buyer.ID, models.RFQStatusDraft)
	rr := httptest.NewRecorder()

	body := `{"quantity":1200,"priority":"high","deadline":"2031-03-01"}`
	h.UpdateRFQHandler(rr, request(http.MethodPatch, "/", body, map[string]string{"rfqId": rfq.ID}))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	got := store.rfqs[rfq.ID]
	require.Equal(t, "Cotton hoodies", got.Title)
	require.Equal(t, 1200, got.Quantity)
	require.Equal(t, models.PriorityHigh, got.Priority)
	require.Equal(t, "2031-03-01", got.Deadline.Format("2006-01-02"))
}

func TestDeleteRFQHandler_RemovesFiles(t *testing.T) {
	store := newMockStorage()
	h, files := newTestHandler(store)
	rfq := addRFQ(store, buyer.ID, models.RFQStatusDraft)

	key := rfq.ID + "/1700000000000.pdf"
	_, err := files.Put(context.Background(), key, strings.NewReader("spec sheet"), 10, "application/pdf")
	require.NoError(t, err)
	store.attachments = append(store.attachments, models.RFQAttachment{ID: uuid.NewString(), RFQID: rfq.ID, ObjectKey: key})

	rr := httptest.NewRecorder()
	h.DeleteRFQHandler(rr, request(http.MethodDelete, "/", "", map[string]string{"rfqId": rfq.ID}))

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.NotContains(t, store.rfqs, rfq.ID)
	_, ok := files.Get(key)
	require.False(t, ok)
}

func TestUploadAttachmentHandler(t *testing.T) {
	store := newMockStorage()
	h, files := newTestHandler(store)
	rfq := addRFQ(store, buyer.ID, models.RFQStatusDraft)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "TechPack.PDF")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.7"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = testutils.WithChiURLParams(testutils.WithUser(req, buyer), map[string]string{"rfqId": rfq.ID})
	rr := httptest.NewRecorder()

	h.UploadAttachmentHandler(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Len(t, store.attachments, 1)
	a := store.attachments[0]
	require.Equal(t, "TechPack.PDF", a.FileName)
	require.Equal(t, "application/pdf", a.MimeType)
	require.EqualValues(t, 8, a.FileSize)
	require.True(t, strings.HasPrefix(a.ObjectKey, rfq.ID+"/"))
	require.True(t, strings.HasSuffix(a.ObjectKey, ".pdf"))

	stored, ok := files.Get(a.ObjectKey)
	require.True(t, ok)
	require.Equal(t, "%PDF-1.7", string(stored))
}

func TestUploadAttachmentHandler_NoFileStorage(t *testing.T) {
	store := newMockStorage()
	h := handlers.NewHandler(store, handlers.Options{})
	rfq := addRFQ(store, buyer.ID, models.RFQStatusDraft)
	rr := httptest.NewRecorder()

	h.UploadAttachmentHandler(rr, request(http.MethodPost, "/", "", map[string]string{"rfqId": rfq.ID}))

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestDeleteAttachmentHandler(t *testing.T) {
	t.Run("metadata then file", func(t *testing.T) {
		store := newMockStorage()
		h, files := newTestHandler(store)
		rfq := addRFQ(store, buyer.ID, models.RFQStatusDraft)
		key := rfq.ID + "/1.png"
		_, err := files.Put(context.Background(), key, strings.NewReader("png"), 3, "image/png")
		require.NoError(t, err)
		a := models.RFQAttachment{ID: uuid.NewString(), RFQID: rfq.ID, ObjectKey: key}
		store.attachments = append(store.attachments, a)

		rr := httptest.NewRecorder()
		h.DeleteAttachmentHandler(rr, request(http.MethodDelete, "/", "",
			map[string]string{"rfqId": rfq.ID, "attachmentId": a.ID}))

		require.Equal(t, http.StatusNoContent, rr.Code)
		require.Empty(t, store.attachments)
		_, ok := files.Get(key)
		require.False(t, ok)
	})

	t.Run("missing file still deletes row", func(t *testing.T) {
		store := newMockStorage()
		h, _ := newTestHandler(store)
		rfq := addRFQ(store, buyer.ID, models.RFQStatusDraft)
		a := models.RFQAttachment{ID: uuid.NewString(), RFQID: rfq.ID, ObjectKey: rfq.ID + "/gone.png"}
		store.attachments = append(store.attachments, a)

		rr := httptest.NewRecorder()
		h.DeleteAttachmentHandler(rr, request(http.MethodDelete, "/", "",
			map[string]string{"rfqId": rfq.ID, "attachmentId": a.ID}))

		require.Equal(t, http.StatusNoContent, rr.Code)
		require.Equal(t, []string{"DeleteAttachment"}, store.calls)
	})

	t.Run("unknown attachment", func(t *testing.T) {
		store := newMockStorage()
		h, _ := newTestHandler(store)
		rfq := addRFQ(store, buyer.ID, models.RFQStatusDraft)

		rr := httptest.NewRecorder()
		h.DeleteAttachmentHandler(rr, request(http.MethodDelete, "/", "",
			map[string]string{"rfqId": rfq.ID, "attachmentId": uuid.NewString()}))

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSendRFQHandler(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	rfq := addRFQ(store, buyer.ID, models.RFQStatusDraft)
	withEmail := addFactory(store, "sales@gzweaving.cn")
	noEmail := addFactory(store, "")

	body := `{"factoryIds":["` + withEmail.ID + `","` + noEmail.ID + `"]}`
	rr := httptest.NewRecorder()
	h.SendRFQHandler(rr, request(http.MethodPost, "/", body, map[string]string{"rfqId": rfq.ID}))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, models.RFQStatusSent, store.rfqs[rfq.ID].Status)
	require.Len(t, store.sent, 2)
	require.Equal(t, models.SendStatusSent, store.sent[0].Status)
	require.Equal(t, models.SendStatusError, store.sent[1].Status)

	out := decode(t, rr)
	summary := out["summary"].(map[string]any)
	require.EqualValues(t, 2, summary["total"])
	require.EqualValues(t, 1, summary["error"])
}

func TestSendRFQHandler_Validation(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	rfq := addRFQ(store, buyer.ID, models.RFQStatusDraft)

	for _, body := range []string{`{"factoryIds":[]}`, `{"factoryIds":["nope"]}`, `{}`} {
		rr := httptest.NewRecorder()
		h.SendRFQHandler(rr, request(http.MethodPost, "/", body, map[string]string{"rfqId": rfq.ID}))
		require.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
	require.Equal(t, models.RFQStatusDraft, store.rfqs[rfq.ID].Status)
}

func TestUpdateSentStatusHandler(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	rfq := addRFQ(store, buyer.ID, models.RFQStatusSent)
	row := models.RFQSentFactory{ID: uuid.NewString(), RFQID: rfq.ID, Status: models.SendStatusSent}
	store.sent = append(store.sent, row)
	params := map[string]string{"rfqId": rfq.ID, "sentId": row.ID}

	rr := httptest.NewRecorder()
	h.UpdateSentStatusHandler(rr, request(http.MethodPut, "/", `{"status":"read","errorMessage":"ignored"}`, params))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, models.SendStatusRead, store.sent[0].Status)
	require.Nil(t, store.sent[0].ErrorMessage)

	rr = httptest.NewRecorder()
	h.UpdateSentStatusHandler(rr, request(http.MethodPut, "/", `{"status":"bounced"}`, params))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateQuoteHandler(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		wantRFQ string
	}{
		{"sent advances to quoted", models.RFQStatusSent, models.RFQStatusQuoted},
		{"draft advances to quoted", models.RFQStatusDraft, models.RFQStatusQuoted},
		{"closed stays closed", models.RFQStatusClosed, models.RFQStatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStorage()
			h, _ := newTestHandler(store)
			rfq := addRFQ(store, buyer.ID, tt.from)
			f := addFactory(store, "sales@gzweaving.cn")

			body := `{"factoryId":"` + f.ID + `","price":4.25,"leadTimeDays":30,"moqUnits":500}`
			rr := httptest.NewRecorder()
			h.CreateQuoteHandler(rr, request(http.MethodPost, "/", body, map[string]string{"rfqId": rfq.ID}))

			require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
			out := decode(t, rr)
			require.Equal(t, "USD", out["currency"])
			require.Equal(t, models.QuoteStatusPending, out["status"])
			require.Equal(t, tt.wantRFQ, store.rfqs[rfq.ID].Status)
		})
	}
}

func TestCreateQuoteHandler_UnknownFactory(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	rfq := addRFQ(store, buyer.ID, models.RFQStatusSent)

	body := `{"factoryId":"` + uuid.NewString() + `","price":4.25,"leadTimeDays":30,"moqUnits":500}`
	rr := httptest.NewRecorder()
	h.CreateQuoteHandler(rr, request(http.MethodPost, "/", body, map[string]string{"rfqId": rfq.ID}))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Empty(t, store.quotes)
}

func TestUpdateQuoteStatusHandler(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	rfq := addRFQ(store, buyer.ID, models.RFQStatusQuoted)
	q := &models.RFQQuote{ID: uuid.NewString(), RFQID: rfq.ID, Price: 5, Status: models.QuoteStatusPending}
	store.quotes = append(store.quotes, q)
	params := map[string]string{"quoteId": q.ID}

	rr := httptest.NewRecorder()
	h.UpdateQuoteStatusHandler(rr, request(http.MethodPut, "/", `{"status":"accepted"}`, params))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, models.QuoteStatusAccepted, q.Status)

	rr = httptest.NewRecorder()
	h.UpdateQuoteStatusHandler(rr, request(http.MethodPut, "/", `{"status":"rejected"}`, params))
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, models.QuoteStatusAccepted, q.Status)

	rr = httptest.NewRecorder()
	h.UpdateQuoteStatusHandler(rr, request(http.MethodPut, "/", `{"status":"pending"}`, params))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCompareQuotesHandler(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	rfq := addRFQ(store, buyer.ID, models.RFQStatusQuoted)
	first := &models.RFQQuote{ID: uuid.NewString(), RFQID: rfq.ID, Price: 10, LeadTimeDays: 20, MOQUnits: 300, Status: models.QuoteStatusPending}
	second := &models.RFQQuote{ID: uuid.NewString(), RFQID: rfq.ID, Price: 8, LeadTimeDays: 45, MOQUnits: 1000, Status: models.QuoteStatusPending}
	rejected := &models.RFQQuote{ID: uuid.NewString(), RFQID: rfq.ID, Price: 2, LeadTimeDays: 5, MOQUnits: 10, Status: models.QuoteStatusRejected}
	store.quotes = append(store.quotes, first, second, rejected)
	params := map[string]string{"rfqId": rfq.ID}

	rr := httptest.NewRecorder()
	h.CompareQuotesHandler(rr, request(http.MethodGet, "/?sort=lead_time&status=pending", "", params))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	out := decode(t, rr)
	require.Equal(t, second.ID, out["bestQuoteId"])
	require.EqualValues(t, 8, out["minPrice"])
	require.EqualValues(t, 20, out["minLeadTime"])
	require.EqualValues(t, 2, out["pending"])
	rows := out["rows"].([]any)
	require.Len(t, rows, 2)
	require.Equal(t, first.ID, rows[0].(map[string]any)["id"])

	for _, q := range []string{"/?sort=colour", "/?order=sideways", "/?status=accepted"} {
		rr = httptest.NewRecorder()
		h.CompareQuotesHandler(rr, request(http.MethodGet, q, "", params))
		require.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}

func TestCreateTemplateHandler_SingleDefault(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	old := &models.RFQEmailTemplate{ID: uuid.NewString(), OwnerID: buyer.ID, Name: "Old", IsDefault: true}
	store.templates = append(store.templates, old)

	body := `{"name":"Formal","subject":"RFQ: {{rfq_title}}","body":"Dear {{factory_name}}","isDefault":true}`
	rr := httptest.NewRecorder()
	h.CreateTemplateHandler(rr, request(http.MethodPost, "/api/templates", body, nil))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Equal(t, []string{"ClearDefaultTemplates", "CreateTemplate"}, store.calls)
	require.False(t, old.IsDefault)
	require.True(t, store.templates[1].IsDefault)
}

func TestUpdateTemplateHandler_NotDefaultKeepsOthers(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	def := &models.RFQEmailTemplate{ID: uuid.NewString(), OwnerID: buyer.ID, Name: "Default", IsDefault: true}
	other := &models.RFQEmailTemplate{ID: uuid.NewString(), OwnerID: buyer.ID, Name: "Other"}
	store.templates = append(store.templates, def, other)

	body := `{"name":"Other v2","subject":"s","body":"b","isDefault":false}`
	rr := httptest.NewRecorder()
	h.UpdateTemplateHandler(rr, request(http.MethodPut, "/", body, map[string]string{"templateId": other.ID}))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, []string{"UpdateTemplate"}, store.calls)
	require.True(t, store.templates[0].IsDefault)
	require.Equal(t, "Other v2", store.templates[1].Name)
}

func TestPreviewTemplateHandler(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	rfq := addRFQ(store, buyer.ID, models.RFQStatusDraft)
	tpl := &models.RFQEmailTemplate{
		ID:      uuid.NewString(),
		OwnerID: buyer.ID,
		Subject: "RFQ: {{rfq_title}}",
		Body:    "Qty {{rfq_quantity}} from {{sender_company}}",
	}
	store.templates = append(store.templates, tpl)
	params := map[string]string{"templateId": tpl.ID}

	rr := httptest.NewRecorder()
	h.PreviewTemplateHandler(rr, request(http.MethodGet, "/?rfqId="+rfq.ID, "", params))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	out := decode(t, rr)
	require.Equal(t, "RFQ: Cotton hoodies", out["subject"])
	require.Equal(t, "Qty 500 from Northwind Apparel", out["body"])

	rr = httptest.NewRecorder()
	h.PreviewTemplateHandler(rr, request(http.MethodGet, "/?rfqId=bad", "", params))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetFactoriesHandler_Masking(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	locked := addFactory(store, "a@example.com")
	open := addFactory(store, "b@example.com")
	store.unlocks[open.ID] = true

	rr := httptest.NewRecorder()
	h.GetFactoriesHandler(rr, request(http.MethodGet, "/api/factories", "", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 2)

	require.Equal(t, locked.ID, out[0]["id"])
	require.Equal(t, true, out[0]["locked"])
	require.Equal(t, "••••••", out[0]["nameEn"])
	require.Equal(t, "Guangzhou", out[0]["city"])
	require.NotContains(t, out[0], "email")

	require.Equal(t, false, out[1]["locked"])
	require.Equal(t, "Guangzhou Weaving", out[1]["nameEn"])
	require.Equal(t, "b@example.com", out[1]["email"])
}

func TestGetFactoriesHandler_SubscriberSeesAll(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	addFactory(store, "a@example.com")
	store.subscription = &models.Subscription{
		UserID:           buyer.ID,
		Status:           models.SubscriptionActive,
		CurrentPeriodEnd: time.Now().Add(24 * time.Hour),
	}

	rr := httptest.NewRecorder()
	h.GetFactoriesHandler(rr, request(http.MethodGet, "/api/factories", "", nil))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 1)
	require.Equal(t, false, out[0]["locked"])
}

func TestUnlockFactoryHandler(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	f := addFactory(store, "a@example.com")
	params := map[string]string{"factoryId": f.ID}

	rr := httptest.NewRecorder()
	h.UnlockFactoryHandler(rr, request(http.MethodPost, "/", "", params))
	require.Equal(t, http.StatusPaymentRequired, rr.Code)

	store.credits = 1
	rr = httptest.NewRecorder()
	h.UnlockFactoryHandler(rr, request(http.MethodPost, "/", "", params))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Guangzhou Weaving", decode(t, rr)["nameEn"])
	require.Equal(t, 0, store.credits)

	rr = httptest.NewRecorder()
	h.UnlockFactoryHandler(rr, request(http.MethodPost, "/", "", params))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestCalculatorHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	handlers.CalculatorHandler(rr, httptest.NewRequest(http.MethodGet, "/api/calculator?amount=$10,000", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	out := decode(t, rr)
	require.Equal(t, "valid", out["state"])
	require.EqualValues(t, 10000, out["amount"])
	require.Equal(t, "$50.00", out["formatted"])
	require.Equal(t, true, out["canProceed"])
}

func TestExportHandler(t *testing.T) {
	store := newMockStorage()
	h, files := newTestHandler(store)
	addFactory(store, "a@example.com")
	addFactory(store, "b@example.com")
	router := handlers.NewRouter(h, handlers.RouterConfig{JWTSecret: "jwt", ServiceKey: "svc"})

	req := httptest.NewRequest(http.MethodPost, "/api/export",
		strings.NewReader(`{"type":"contact","filename":"../../leads"}`))
	req.Header.Set("X-Service-Key", "svc")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	out := decode(t, rr)
	require.Equal(t, true, out["success"])
	require.Equal(t, "leads.csv", out["filename"])
	require.Equal(t, "exports/leads.csv", out["filePath"])
	require.EqualValues(t, 2, out["recordCount"])
	require.Equal(t, "contact", out["type"])

	stored, ok := files.Get("exports/leads.csv")
	require.True(t, ok)
	require.Len(t, strings.Split(strings.TrimSpace(string(stored)), "\n"), 3)
}

func TestExportHandler_Errors(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	router := handlers.NewRouter(h, handlers.RouterConfig{JWTSecret: "jwt", ServiceKey: "svc"})

	tests := []struct {
		name       string
		key        string
		body       string
		wantStatus int
	}{
		{"missing key", "", `{"type":"all"}`, http.StatusUnauthorized},
		{"wrong key", "nope", `{"type":"all"}`, http.StatusUnauthorized},
		{"bad type", "svc", `{"type":"everything"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(tt.body))
			if tt.key != "" {
				req.Header.Set("X-Service-Key", tt.key)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			require.Equal(t, false, decode(t, rr)["success"])
		})
	}
}

func TestDownloadExportHandler(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	addFactory(store, "a@example.com")
	router := handlers.NewRouter(h, handlers.RouterConfig{JWTSecret: "jwt", ServiceKey: "svc"})

	for _, format := range []string{"csv", "xlsx"} {
		req := httptest.NewRequest(http.MethodGet, "/api/export/download?type=stats&format="+format, nil)
		req.Header.Set("X-Service-Key", "svc")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, format)
		require.Contains(t, rr.Header().Get("Content-Disposition"), "."+format)
		require.NotZero(t, rr.Body.Len())
	}
}

func TestRouter_Auth(t *testing.T) {
	store := newMockStorage()
	h, _ := newTestHandler(store)
	addRFQ(store, buyer.ID, models.RFQStatusDraft)
	router := handlers.NewRouter(h, handlers.RouterConfig{JWTSecret: "jwt", ServiceKey: "svc"})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/rfqs", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	token, err := auth.IssueToken("jwt", buyer, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/rfqs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
}

func TestRouter_BackendNotConfigured(t *testing.T) {
	router := handlers.NewRouter(nil, handlers.RouterConfig{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/calculator?amount=5000", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	for _, target := range []string{"/api/rfqs", "/api/factories"} {
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusServiceUnavailable, rr.Code, target)
	}
}

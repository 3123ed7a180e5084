package eventrsvp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service, callerID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewHandler(svc)
	fakeAuth := func(c *gin.Context) {
		if callerID != 0 {
			c.Set("user_id", callerID)
		}
		c.Next()
	}
	r.GET("/events/:id/rsvp", fakeAuth, h.GetEventRSVPs)
	r.POST("/events/:id/rsvp", fakeAuth, h.ManageRSVP)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func rsvpPath(eventID uint) string {
	return fmt.Sprintf("/events/%d/rsvp", eventID)
}

func TestManageRSVPConfirmResponseShape(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(10), true)
	r := newTestRouter(svc, organizerID)

	w, resp := doJSON(t, r, http.MethodPost, rsvpPath(ev.ID), gin.H{
		"action":       "confirm",
		"targetUserId": 10,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "confirm", resp["action"])

	summary := resp["summary"].(map[string]interface{})
	assert.EqualValues(t, 1, summary["confirmed"])
	assert.EqualValues(t, 9, summary["remainingCapacity"])

	meta := resp["meta"].(map[string]interface{})
	assert.EqualValues(t, 1, meta["totalRsvps"])
	assert.EqualValues(t, 0, meta["totalFeedback"])
	assert.Nil(t, meta["averageRating"])

	rsvps := resp["rsvps"].([]interface{})
	require.Len(t, rsvps, 1)
}

func TestGetEventRSVPsStatuses(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, false)

	// not an organizer of this event
	w, resp := doJSON(t, newTestRouter(svc, outsiderID), http.MethodGet, rsvpPath(ev.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, CodeNotOrganizer, resp["code"])

	// unknown event
	w, resp = doJSON(t, newTestRouter(svc, organizerID), http.MethodGet, rsvpPath(9999), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeEventNotFound, resp["code"])

	// no session at all
	w, _ = doJSON(t, newTestRouter(svc, 0), http.MethodGet, rsvpPath(ev.ID), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp = doJSON(t, newTestRouter(svc, organizerID), http.MethodGet, rsvpPath(ev.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, resp, "rsvps")
	assert.Contains(t, resp, "summary")
	assert.Contains(t, resp, "feedback")
	assert.Contains(t, resp, "meta")
}

func TestManageRSVPValidation(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, true)
	r := newTestRouter(svc, organizerID)

	w, resp := doJSON(t, r, http.MethodPost, rsvpPath(ev.ID), gin.H{"action": "explode"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp["error"], "unknown action")

	w, resp = doJSON(t, r, http.MethodPost, rsvpPath(ev.ID), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "action is required", resp["error"])

	w, resp = doJSON(t, r, http.MethodPost, rsvpPath(ev.ID), gin.H{"action": "confirm"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "targetUserId is required", resp["error"])

	w, resp = doJSON(t, r, http.MethodPost, rsvpPath(ev.ID), gin.H{"action": "feedback"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "rating is required", resp["error"])

	w, _ = doJSON(t, r, http.MethodPost, "/events/zero/rsvp", gin.H{"action": "confirm"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestManageRSVPDomainErrorMapping(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, false)
	r := newTestRouter(svc, organizerID)

	w, _ := doJSON(t, r, http.MethodPost, rsvpPath(ev.ID), gin.H{
		"action": "confirm", "targetUserId": 10,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// repeating the confirm trips the conflict path
	w, resp := doJSON(t, r, http.MethodPost, rsvpPath(ev.ID), gin.H{
		"action": "confirm", "targetUserId": 10,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeAlreadyConfirmed, resp["code"])

	// waitlist is off for this event
	w, resp = doJSON(t, r, http.MethodPost, rsvpPath(ev.ID), gin.H{
		"action": "waitlist", "targetUserId": 11,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeWaitlistDisabled, resp["code"])

	// out-of-range rating
	w, resp = doJSON(t, r, http.MethodPost, rsvpPath(ev.ID), gin.H{
		"action": "feedback", "rating": 6,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeInvalidFeedbackRating, resp["code"])

	// non-organizer issuing a command
	w, resp = doJSON(t, newTestRouter(svc, outsiderID), http.MethodPost, rsvpPath(ev.ID), gin.H{
		"action": "cancel", "targetUserId": 10,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, CodeNotOrganizer, resp["code"])
}

func TestManageRSVPCapacityOverrideWarning(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(1), false)
	r := newTestRouter(svc, organizerID)

	_, err := svc.Join(context.Background(), ev.ID, 10, "")
	require.NoError(t, err)

	w, resp := doJSON(t, r, http.MethodPost, rsvpPath(ev.ID), gin.H{
		"action": "confirm", "targetUserId": 11,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["capacityExceeded"])
}

func TestManageRSVPSweepReportsPromotions(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, intp(3), true)
	r := newTestRouter(svc, organizerID)

	for _, userID := range []uint{20, 21} {
		require.NoError(t, svc.Waitlist(context.Background(), ev.ID, userID, organizerID, ""))
	}

	w, resp := doJSON(t, r, http.MethodPost, rsvpPath(ev.ID), gin.H{"action": "sweep-waitlist"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, resp["promoted"])

	summary := resp["summary"].(map[string]interface{})
	assert.EqualValues(t, 2, summary["confirmed"])
	assert.EqualValues(t, 0, summary["waitlisted"])
}

func TestFeedbackDefaultsToCaller(t *testing.T) {
	svc := newTestService(t)
	ev := createTestEvent(t, svc, nil, false)
	ctx := context.Background()

	_, err := svc.Join(ctx, ev.ID, 42, "")
	require.NoError(t, err)

	// a plain participant posts their own rating through the facade
	r := newTestRouter(svc, 42)
	w, resp := doJSON(t, r, http.MethodPost, rsvpPath(ev.ID), gin.H{
		"action": "feedback", "rating": 4, "comment": "good one",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])

	fb, err := svc.Repo.ListFeedback(svc.Repo.DB, ev.ID)
	require.NoError(t, err)
	require.Len(t, fb, 1)
	assert.Equal(t, uint(42), fb[0].UserID)
	assert.Equal(t, 4, fb[0].Rating)
}

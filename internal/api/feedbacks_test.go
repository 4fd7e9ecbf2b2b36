package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"khmerdownload-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FeedbackEndpoints(t *testing.T) {
	t.Run("ContactHiddenFromPublic", func(t *testing.T) {
		r := setupRouter(t)
		token := adminToken(t)

		w := doJSON(r, http.MethodPost, "/api/feedbacks", "", map[string]interface{}{
			"name":    "Dara",
			"contact": "dara@example.com",
			"message": "Please add more games",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var listed struct {
			Data []models.Feedback `json:"data"`
		}

		// Anonymous listing omits the contact.
		w = doJSON(r, http.MethodGet, "/api/feedbacks", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
		require.Len(t, listed.Data, 1)
		assert.Empty(t, listed.Data[0].Contact)

		// Admin listing includes it.
		w = doJSON(r, http.MethodGet, "/api/feedbacks", token, nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
		require.Len(t, listed.Data, 1)
		assert.Equal(t, "dara@example.com", listed.Data[0].Contact)
	})

	t.Run("AdminReplyIsGated", func(t *testing.T) {
		r := setupRouter(t)
		token := adminToken(t)

		w := doJSON(r, http.MethodPost, "/api/feedbacks", "", map[string]interface{}{
			"name":    "Visal",
			"message": "Download link broken",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var created struct {
			Data models.Feedback `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

		body := map[string]interface{}{"admin_reply": "Fixed, thanks for reporting"}
		path := "/api/feedbacks/reply/1"

		w = doJSON(r, http.MethodPut, path, "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = doJSON(r, http.MethodPut, path, token, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var replied struct {
			Data models.Feedback `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replied))
		assert.Equal(t, models.FeedbackResolved, replied.Data.Status)
		assert.NotNil(t, replied.Data.ReplyDate)
	})

	t.Run("Reactions", func(t *testing.T) {
		r := setupRouter(t)

		w := doJSON(r, http.MethodPost, "/api/feedbacks", "", map[string]interface{}{
			"name":    "Dara",
			"message": "Nice",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(r, http.MethodPost, "/api/feedbacks/react/1", "", map[string]interface{}{"type": "love"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var reacted struct {
			Data models.Feedback `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reacted))
		assert.Equal(t, 1, reacted.Data.Loves)

		w = doJSON(r, http.MethodPost, "/api/feedbacks/react/1", "", map[string]interface{}{"type": "angry"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

package api

import (
	"net/http"

	"khmerdownload-api/internal/database"
	"khmerdownload-api/internal/middleware"
	"khmerdownload-api/internal/response"
	"khmerdownload-api/internal/services"

	"github.com/gin-gonic/gin"
)

// CreateFeedbackRequest posts to the wall, or replies when parent_id is set
type CreateFeedbackRequest struct {
	Name     string `json:"name" binding:"required"`
	Contact  string `json:"contact"`
	Message  string `json:"message" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

// CreateFeedback adds a wall post or reply
func CreateFeedback(c *gin.Context) {
	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Name and message are required")
		return
	}

	feedbackService := services.NewFeedbackService(database.GetDB())
	feedback, err := feedbackService.Create(req.Name, req.Contact, req.Message, req.ParentID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(feedback))
}

// ListFeedback returns the wall oldest-first. Contact details are only
// included for admin callers.
func ListFeedback(c *gin.Context) {
	feedbackService := services.NewFeedbackService(database.GetDB())
	feedbacks, err := feedbackService.GetAll()
	if err != nil {
		fail(c, err)
		return
	}

	if !middleware.IsAdmin(c) {
		for i := range feedbacks {
			feedbacks[i].Contact = ""
		}
	}

	response.SuccessJSON(c, feedbacks)
}

// ReactRequest is a like/love reaction
type ReactRequest struct {
	Type string `json:"type" binding:"required,oneof=like love"`
}

// ReactFeedback bumps a reaction counter
func ReactFeedback(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid feedback id")
		return
	}

	var req ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Reaction type must be like or love")
		return
	}

	feedbackService := services.NewFeedbackService(database.GetDB())
	feedback, err := feedbackService.React(id, req.Type)
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessJSON(c, feedback)
}

// UpdateFeedbackRequest edits a post message
type UpdateFeedbackRequest struct {
	Message string `json:"message" binding:"required"`
}

// UpdateFeedback edits a post's message
func UpdateFeedback(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid feedback id")
		return
	}

	var req UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Message is required")
		return
	}

	feedbackService := services.NewFeedbackService(database.GetDB())
	feedback, err := feedbackService.UpdateMessage(id, req.Message)
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessJSON(c, feedback)
}

// ReplyRequest is the official admin reply
type ReplyRequest struct {
	AdminReply string `json:"admin_reply" binding:"required"`
}

// ReplyFeedback records the official admin reply. Admin only.
func ReplyFeedback(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid feedback id")
		return
	}

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Reply text is required")
		return
	}

	feedbackService := services.NewFeedbackService(database.GetDB())
	feedback, err := feedbackService.Reply(id, req.AdminReply)
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessJSON(c, feedback)
}

// DeleteFeedback removes a post. Admin only.
func DeleteFeedback(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid feedback id")
		return
	}

	feedbackService := services.NewFeedbackService(database.GetDB())
	if err := feedbackService.Delete(id); err != nil {
		fail(c, err)
		return
	}

	response.SuccessJSON(c, gin.H{"message": "Feedback deleted"})
}

package api

import (
	"net/http"
	"strconv"

	"khmerdownload-api/internal/database"
	"khmerdownload-api/internal/models"
	"khmerdownload-api/internal/response"
	"khmerdownload-api/internal/services"

	"github.com/gin-gonic/gin"
)

// ListVideos returns the video catalog
func ListVideos(c *gin.Context) {
	videoService := services.NewVideoService(database.GetDB())
	videos, err := videoService.GetAll()
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessJSON(c, videos)
}

// CreateVideo creates a video from a multipart form with optional
// video/thumbnail uploads. Admin only.
func CreateVideo(c *gin.Context) {
	video := &models.Video{
		Title:            c.PostForm("title"),
		Description:      c.PostForm("description"),
		ExternalVideoURL: c.PostForm("external_video_url"),
	}
	if video.Title == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "Title is required")
		return
	}
	if v := c.PostForm("program_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			response.ErrorJSON(c, http.StatusBadRequest, "Invalid program_id: "+v)
			return
		}
		pid := uint(id)
		video.ProgramID = &pid
	}

	if path, err := saveUpload(c, "video"); err != nil {
		fail(c, err)
		return
	} else if path != "" {
		video.VideoURL = path
	}
	if path, err := saveUpload(c, "thumbnail"); err != nil {
		fail(c, err)
		return
	} else if path != "" {
		video.ThumbnailURL = path
	}

	videoService := services.NewVideoService(database.GetDB())
	if err := videoService.Create(video); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(video))
}

// UpdateVideo updates a video. Admin only.
func UpdateVideo(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid video id")
		return
	}

	updates := make(map[string]interface{})
	for form, column := range map[string]string{
		"title":              "title",
		"description":        "description",
		"external_video_url": "external_video_url",
	} {
		if v, ok := c.GetPostForm(form); ok {
			updates[column] = v
		}
	}
	for field, column := range map[string]string{
		"video":     "video_url",
		"thumbnail": "thumbnail_url",
	} {
		path, err := saveUpload(c, field)
		if err != nil {
			fail(c, err)
			return
		}
		if path != "" {
			updates[column] = path
		}
	}

	videoService := services.NewVideoService(database.GetDB())
	video, err := videoService.Update(id, updates)
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessJSON(c, video)
}

// DeleteVideo removes a video. Admin only.
func DeleteVideo(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid video id")
		return
	}

	videoService := services.NewVideoService(database.GetDB())
	if err := videoService.Delete(id); err != nil {
		fail(c, err)
		return
	}

	response.SuccessJSON(c, gin.H{"message": "Video deleted"})
}

// RecordView bumps a video's view counter
func RecordView(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid video id")
		return
	}

	videoService := services.NewVideoService(database.GetDB())
	if err := videoService.IncrementViews(id); err != nil {
		fail(c, err)
		return
	}

	response.SuccessJSON(c, gin.H{"message": "View recorded"})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vidtube/internal/apperrors"
	"vidtube/internal/response"
	"vidtube/internal/service"
)

// updateVideoRequest is read from the form, or from a JSON body when the
// thumbnail is left unchanged.
type updateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h HandlerSet) PublishVideo(c *gin.Context) error {
	videoPath, err := h.stageFile(c, "videoFile")
	defer h.unstage(videoPath)
	if err != nil {
		return err
	}
	thumbnailPath, err := h.stageFile(c, "thumbnail")
	defer h.unstage(thumbnailPath)
	if err != nil {
		return err
	}

	var duration float64
	if raw := c.PostForm("duration"); raw != "" {
		duration, err = strconv.ParseFloat(raw, 64)
		if err != nil || duration < 0 {
			return apperrors.Validation("duration must be a non-negative number")
		}
	}

	video, err := h.videos.Publish(c.Request.Context(), currentUserID(c), service.PublishVideoInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
		Duration:      duration,
	})
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusCreated, newVideoResponse(video), "Video published successfully")
}

func (h HandlerSet) GetVideo(c *gin.Context) error {
	video, err := h.videos.Get(c.Request.Context(), c.Param("videoId"), currentUserID(c))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newVideoResponse(video), "Video fetched successfully")
}

func (h HandlerSet) UpdateVideo(c *gin.Context) error {
	thumbnailPath, err := h.stageFile(c, "thumbnail")
	defer h.unstage(thumbnailPath)
	if err != nil {
		return err
	}

	req := updateVideoRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}
	if c.ContentType() == gin.MIMEJSON {
		if err := bindJSON(c, &req); err != nil {
			return err
		}
	}

	video, err := h.videos.Update(c.Request.Context(), c.Param("videoId"), currentUserID(c), service.UpdateVideoInput{
		Title:         req.Title,
		Description:   req.Description,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newVideoResponse(video), "Video updated successfully")
}

func (h HandlerSet) DeleteVideo(c *gin.Context) error {
	if err := h.videos.Delete(c.Request.Context(), c.Param("videoId"), currentUserID(c)); err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, nil, "Video deleted successfully")
}

func (h HandlerSet) TogglePublish(c *gin.Context) error {
	video, err := h.videos.TogglePublish(c.Request.Context(), c.Param("videoId"), currentUserID(c))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newVideoResponse(video), "Publish status toggled")
}

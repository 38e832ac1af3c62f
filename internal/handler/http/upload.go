package http

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/service/file"
)

type UploadHandler interface {
	UploadPhoto(w http.ResponseWriter, r *http.Request)
}

type uploadHandlerImpl struct {
	fileService file.FileService
}

func NewUploadHandler(fileService file.FileService) UploadHandler {
	return &uploadHandlerImpl{fileService: fileService}
}

// UploadPhoto handles POST /uploads/photo with a multipart "photo" field
func (h *uploadHandlerImpl) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Allow some room for the multipart envelope around the photo
	r.Body = http.MaxBytesReader(w, r.Body, file.MaxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(file.MaxPhotoSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(w, file.ErrFileTooLarge)
			return
		}
		response.BadRequest(w, "INVALID_BODY", "Failed to parse form data", nil)
		return
	}

	photo, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "MISSING_PHOTO", "Photo is required.", nil)
			return
		}
		response.BadRequest(w, "INVALID_BODY", "Invalid file upload", nil)
		return
	}
	defer photo.Close()

	url, err := h.fileService.UploadPhoto(r.Context(), actor.UserID, photo, header.Filename)
	if err != nil {
		response.HandleErrorWith(w, err, "Error uploading photo")
		return
	}

	response.Created(w, map[string]string{"photoUrl": url})
}

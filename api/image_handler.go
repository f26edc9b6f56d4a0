package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/inkwell-press/backend/errs"
	"github.com/inkwell-press/backend/services"
)

type imageHandler struct {
	responder    Responder
	logger       zerolog.Logger
	imageService *services.ImageService
}

func newImageHandler(imageService *services.ImageService) imageHandler {
	logger := log.With().Str("handlerName", "imageHandler").Logger()

	return imageHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		imageService: imageService,
	}
}

// SignedURLRequest asks for a direct-upload grant for an image of the
// given content type.
type SignedURLRequest struct {
	ContentType string `json:"content_type"`
}

// signedUploadURL issues a time-boxed presigned POST grant.
func (h imageHandler) signedUploadURL() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SignedURLRequest
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode signed URL body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if input.ContentType == "" {
			h.responder.WriteError(w, errs.NewBadRequestErrorWithField("missing content type", "content_type", "content_type is required"))
			return
		}

		upload, err := h.imageService.SignedUploadURL(r.Context(), input.ContentType)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, upload)
	}
}

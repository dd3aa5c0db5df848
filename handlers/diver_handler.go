package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/cache"
	"github.com/SCN0mad/scuba-app-backend/domain"
	errs "github.com/SCN0mad/scuba-app-backend/errors"
	application "github.com/SCN0mad/scuba-app-backend/service"
	"github.com/SCN0mad/scuba-app-backend/storage"
)

type DiverHandler struct {
	service     *application.DiverService
	fileStorage *storage.FileStorage
	imageCache  *cache.ImageCache
	logger      *logrus.Logger
	tracer      trace.Tracer
}

func NewDiverHandler(service *application.DiverService, fileStorage *storage.FileStorage, imageCache *cache.ImageCache,
	logger *logrus.Logger, tracer trace.Tracer) *DiverHandler {
	return &DiverHandler{
		service:     service,
		fileStorage: fileStorage,
		imageCache:  imageCache,
		logger:      logger,
		tracer:      tracer,
	}
}

func (handler *DiverHandler) Init(router *mux.Router) {
	router.HandleFunc("/register", handler.Register).Methods("POST")
	router.HandleFunc("/search", handler.Search).Methods("GET")
	router.HandleFunc("/{uid}", handler.Get).Methods("GET")
	router.HandleFunc("/{uid}", handler.Update).Methods("PUT")
	router.HandleFunc("/{uid}/photo", handler.UploadProfilePhoto).Methods("POST")
	router.HandleFunc("/{uid}/gallery", handler.UploadGalleryPhoto).Methods("POST")
	router.HandleFunc("/{uid}/photo/{imageName}", handler.ServePhoto).Methods("GET")
}

func (handler *DiverHandler) Register(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "DiverHandler.Register")
	defer span.End()

	var request domain.RegisterDiver
	if err := request.FromJSON(h.Body); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}
	if err := request.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}

	diver, err := handler.service.Register(ctx, GetSubjectID(h), &request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errs.EmailAlreadyExist || err.Error() == errs.DiverAlreadyRegistered {
			handler.logger.Println("Error registering diver:", err)
			http.Error(rw, err.Error(), http.StatusConflict)
			return
		}
		http.Error(rw, "Error registering diver", http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(http.StatusCreated)
	json.NewEncoder(rw).Encode(diver)
}

func (handler *DiverHandler) Get(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "DiverHandler.Get")
	defer span.End()

	vars := mux.Vars(h)
	diver, err := handler.service.Get(ctx, vars["uid"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errs.DiverNotFound {
			http.Error(rw, errs.DiverNotFound, http.StatusNotFound)
			return
		}
		http.Error(rw, "Error fetching diver", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(diver)
}

func (handler *DiverHandler) Update(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "DiverHandler.Update")
	defer span.End()

	var payload map[string]interface{}
	if err := json.NewDecoder(h.Body).Decode(&payload); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	var update struct {
		Bio string `mapstructure:"bio"`
	}
	if err := mapstructure.Decode(payload, &update); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	vars := mux.Vars(h)
	diver, err := handler.service.UpdateBio(ctx, vars["uid"], update.Bio)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errs.DiverNotFound {
			http.Error(rw, errs.DiverNotFound, http.StatusNotFound)
			return
		}
		handler.logger.Println("Update diver error:", err)
		http.Error(rw, "Error updating diver", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(diver)
}

func (handler *DiverHandler) Search(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "DiverHandler.Search")
	defer span.End()

	name := h.URL.Query().Get("name")
	limit, _ := strconv.ParseInt(h.URL.Query().Get("limit"), 10, 64)

	divers, err := handler.service.Search(ctx, name, limit)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Println("Error searching divers:", err)
		http.Error(rw, "Error searching divers", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(map[string]interface{}{"results": divers})
}

func (handler *DiverHandler) UploadProfilePhoto(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "DiverHandler.UploadProfilePhoto")
	defer span.End()

	vars := mux.Vars(h)
	photoPath, status, err := handler.storePhoto(h, vars["uid"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, err.Error(), status)
		return
	}

	if err := handler.service.SetProfilePhoto(ctx, vars["uid"], photoPath); err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errs.DiverNotFound {
			http.Error(rw, errs.DiverNotFound, http.StatusNotFound)
			return
		}
		http.Error(rw, "Error saving photo", http.StatusInternalServerError)
		return
	}

	diver, err := handler.service.Get(ctx, vars["uid"])
	if err != nil {
		http.Error(rw, "Error fetching diver", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(rw).Encode(diver)
}

func (handler *DiverHandler) UploadGalleryPhoto(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "DiverHandler.UploadGalleryPhoto")
	defer span.End()

	vars := mux.Vars(h)
	photoPath, status, err := handler.storePhoto(h, vars["uid"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, err.Error(), status)
		return
	}

	if err := handler.service.AppendGalleryPhoto(ctx, vars["uid"], photoPath); err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errs.DiverNotFound {
			http.Error(rw, errs.DiverNotFound, http.StatusNotFound)
			return
		}
		http.Error(rw, "Error saving photo", http.StatusInternalServerError)
		return
	}

	diver, err := handler.service.Get(ctx, vars["uid"])
	if err != nil {
		http.Error(rw, "Error fetching diver", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(rw).Encode(diver)
}

func (handler *DiverHandler) ServePhoto(rw http.ResponseWriter, h *http.Request) {
	vars := mux.Vars(h)
	servePhotoContent(rw, h, vars["uid"], vars["imageName"], handler.fileStorage, handler.imageCache, handler.logger)
}

func (handler *DiverHandler) storePhoto(h *http.Request, ownerUid string) (string, int, error) {
	return storeUploadedPhoto(h, ownerUid, handler.fileStorage, handler.imageCache, handler.logger)
}

// storeUploadedPhoto reads the multipart "photo" field, writes it to the
// file storage and warms the image cache. Shared by diver and centre
// upload endpoints.
func storeUploadedPhoto(h *http.Request, ownerUid string, fileStorage *storage.FileStorage, imageCache *cache.ImageCache,
	logger *logrus.Logger) (string, int, error) {

	file, header, err := h.FormFile("photo")
	if err != nil {
		return "", http.StatusBadRequest, errorNoPhoto()
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", http.StatusInternalServerError, err
	}

	photoPath, err := fileStorage.SaveImage(h.Context(), ownerUid, header.Filename, content)
	if err != nil {
		return "", http.StatusInternalServerError, err
	}

	if err := imageCache.Post(h.Context(), ownerUid, header.Filename, content); err != nil {
		logger.Println("Failed to cache uploaded photo:", err)
	}

	return photoPath, http.StatusOK, nil
}

// servePhotoContent reads cache first, falls back to the file storage and
// refills the cache on a miss.
func servePhotoContent(rw http.ResponseWriter, h *http.Request, ownerUid, imageName string,
	fileStorage *storage.FileStorage, imageCache *cache.ImageCache, logger *logrus.Logger) {

	content, err := imageCache.Get(h.Context(), ownerUid, imageName)
	if err != nil {
		content, err = fileStorage.GetImageContent(h.Context(), ownerUid, imageName)
		if err != nil {
			http.Error(rw, "Photo not found", http.StatusNotFound)
			return
		}
		if cacheErr := imageCache.Post(h.Context(), ownerUid, imageName, content); cacheErr != nil {
			logger.Println("Failed to cache photo:", cacheErr)
		}
	}

	rw.Header().Set("Content-Type", http.DetectContentType(content))
	rw.Write(content)
}

func errorNoPhoto() error {
	return errors.New(errs.NoPhotoUploaded)
}

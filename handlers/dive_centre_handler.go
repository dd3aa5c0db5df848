package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/cache"
	"github.com/SCN0mad/scuba-app-backend/domain"
	errs "github.com/SCN0mad/scuba-app-backend/errors"
	application "github.com/SCN0mad/scuba-app-backend/service"
	"github.com/SCN0mad/scuba-app-backend/storage"
)

type DiveCentreHandler struct {
	service      *application.DiveCentreService
	diverService *application.DiverService
	fileStorage  *storage.FileStorage
	imageCache   *cache.ImageCache
	logger       *logrus.Logger
	tracer       trace.Tracer
}

func NewDiveCentreHandler(service *application.DiveCentreService, diverService *application.DiverService,
	fileStorage *storage.FileStorage, imageCache *cache.ImageCache, logger *logrus.Logger, tracer trace.Tracer) *DiveCentreHandler {
	return &DiveCentreHandler{
		service:      service,
		diverService: diverService,
		fileStorage:  fileStorage,
		imageCache:   imageCache,
		logger:       logger,
		tracer:       tracer,
	}
}

func (handler *DiveCentreHandler) Init(router *mux.Router) {
	router.HandleFunc("/register", handler.Register).Methods("POST")
	router.HandleFunc("/search", handler.Search).Methods("GET")
	router.HandleFunc("/diver/{diverId}", handler.GetDiverDetails).Methods("GET")
	router.HandleFunc("/{uid}", handler.Get).Methods("GET")
	router.HandleFunc("/{uid}", handler.Update).Methods("PUT")
	router.HandleFunc("/{uid}/logo", handler.UploadLogoPhoto).Methods("POST")
	router.HandleFunc("/{uid}/photo", handler.UploadProfilePhoto).Methods("POST")
	router.HandleFunc("/{uid}/gallery", handler.UploadGalleryPhoto).Methods("POST")
	router.HandleFunc("/{uid}/reviews", handler.AddReview).Methods("POST")
	router.HandleFunc("/{uid}/photo/{imageName}", handler.ServePhoto).Methods("GET")
}

func (handler *DiveCentreHandler) Register(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "DiveCentreHandler.Register")
	defer span.End()

	var request domain.RegisterDiveCentre
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

	centre, err := handler.service.Register(ctx, GetSubjectID(h), &request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errs.EmailAlreadyExist || err.Error() == errs.CentreAlreadyRegistered {
			handler.logger.Println("Error registering dive centre:", err)
			http.Error(rw, err.Error(), http.StatusConflict)
			return
		}
		http.Error(rw, "Error registering dive centre", http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(http.StatusCreated)
	json.NewEncoder(rw).Encode(centre)
}

func (handler *DiveCentreHandler) Get(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "DiveCentreHandler.Get")
	defer span.End()

	vars := mux.Vars(h)
	centre, err := handler.service.Get(ctx, vars["uid"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errs.DiveCentreNotFound {
			http.Error(rw, errs.DiveCentreNotFound, http.StatusNotFound)
			return
		}
		http.Error(rw, "Error fetching dive centre", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(centre)
}

func (handler *DiveCentreHandler) Update(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "DiveCentreHandler.Update")
	defer span.End()

	var payload struct {
		Services     []domain.Offer        `json:"services"`
		Availability []domain.Availability `json:"availability"`
	}
	if err := json.NewDecoder(h.Body).Decode(&payload); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	vars := mux.Vars(h)
	centre, err := handler.service.UpdateOffer(ctx, vars["uid"], payload.Services, payload.Availability)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errs.DiveCentreNotFound {
			http.Error(rw, errs.DiveCentreNotFound, http.StatusNotFound)
			return
		}
		http.Error(rw, "Error updating dive centre", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(centre)
}

// Search composes the optional query parameters into one conjunctive
// filter. Parameters left out never narrow the result.
func (handler *DiveCentreHandler) Search(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "DiveCentreHandler.Search")
	defer span.End()

	filters, err := parseDiveCentreFilters(h)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}

	centres, err := handler.service.Search(ctx, filters)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Println("Error searching dive centres:", err)
		http.Error(rw, "Error searching dive centres", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(map[string]interface{}{"results": centres})
}

func (handler *DiveCentreHandler) GetDiverDetails(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "DiveCentreHandler.GetDiverDetails")
	defer span.End()

	vars := mux.Vars(h)
	details, err := handler.diverService.GetDetails(ctx, vars["diverId"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errs.DiverNotFound {
			http.Error(rw, errs.DiverNotFound, http.StatusNotFound)
			return
		}
		http.Error(rw, "Error fetching diver details", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(details)
}

func (handler *DiveCentreHandler) AddReview(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "DiveCentreHandler.AddReview")
	defer span.End()

	var payload struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(h.Body).Decode(&payload); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}
	if payload.Rating < 1 || payload.Rating > 5 {
		http.Error(rw, "rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(h)
	review := domain.Review{
		ReviewerID: GetSubjectID(h),
		Rating:     payload.Rating,
		Comment:    payload.Comment,
	}
	if err := handler.service.AddReview(ctx, vars["uid"], review); err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errs.DiveCentreNotFound {
			http.Error(rw, errs.DiveCentreNotFound, http.StatusNotFound)
			return
		}
		http.Error(rw, "Error adding review", http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(http.StatusCreated)
}

func (handler *DiveCentreHandler) ServePhoto(rw http.ResponseWriter, h *http.Request) {
	vars := mux.Vars(h)
	servePhotoContent(rw, h, vars["uid"], vars["imageName"], handler.fileStorage, handler.imageCache, handler.logger)
}

func (handler *DiveCentreHandler) UploadLogoPhoto(rw http.ResponseWriter, h *http.Request) {
	handler.uploadPhoto(rw, h, handler.service.SetLogoPhoto, "DiveCentreHandler.UploadLogoPhoto")
}

func (handler *DiveCentreHandler) UploadProfilePhoto(rw http.ResponseWriter, h *http.Request) {
	handler.uploadPhoto(rw, h, handler.service.SetProfilePhoto, "DiveCentreHandler.UploadProfilePhoto")
}

func (handler *DiveCentreHandler) UploadGalleryPhoto(rw http.ResponseWriter, h *http.Request) {
	handler.uploadPhoto(rw, h, handler.service.AppendGalleryPhoto, "DiveCentreHandler.UploadGalleryPhoto")
}

func (handler *DiveCentreHandler) uploadPhoto(rw http.ResponseWriter, h *http.Request,
	apply func(ctx context.Context, subjectID string, photo string) error, spanName string) {

	ctx, span := handler.tracer.Start(h.Context(), spanName)
	defer span.End()

	vars := mux.Vars(h)
	photoPath, status, err := storeUploadedPhoto(h, vars["uid"], handler.fileStorage, handler.imageCache, handler.logger)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, err.Error(), status)
		return
	}

	if err := apply(ctx, vars["uid"], photoPath); err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errs.DiveCentreNotFound {
			http.Error(rw, errs.DiveCentreNotFound, http.StatusNotFound)
			return
		}
		http.Error(rw, "Error saving photo", http.StatusInternalServerError)
		return
	}

	centre, err := handler.service.Get(ctx, vars["uid"])
	if err != nil {
		http.Error(rw, "Error fetching dive centre", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(rw).Encode(centre)
}

func parseDiveCentreFilters(h *http.Request) (domain.DiveCentreFilters, error) {
	query := h.URL.Query()

	filters := domain.DiveCentreFilters{
		Address:   query.Get("address"),
		City:      query.Get("city"),
		Country:   query.Get("country"),
		DiveTypes: query.Get("diveTypes"),
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
	}

	if raw := query.Get("maxPrice"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.DiveCentreFilters{}, errorInvalidMaxPrice()
		}
		filters.MaxPrice = &maxPrice
	}

	// Date filtering only makes sense as a range.
	if (filters.StartDate == "") != (filters.EndDate == "") {
		return domain.DiveCentreFilters{}, errorDateRange()
	}

	return filters, nil
}

func errorInvalidMaxPrice() error {
	return errors.New(errs.InvalidMaxPriceError)
}

func errorDateRange() error {
	return errors.New(errs.DateRangeError)
}

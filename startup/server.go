package startup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/authorization"
	"github.com/SCN0mad/scuba-app-backend/cache"
	"github.com/SCN0mad/scuba-app-backend/casbinAuthorization"
	"github.com/SCN0mad/scuba-app-backend/handlers"
	"github.com/SCN0mad/scuba-app-backend/realtime"
	application "github.com/SCN0mad/scuba-app-backend/service"
	"github.com/SCN0mad/scuba-app-backend/startup/config"
	"github.com/SCN0mad/scuba-app-backend/storage"
	"github.com/SCN0mad/scuba-app-backend/store"
)

type Server struct {
	config *config.Config
}

var Logger = logrus.New()

const (
	LogFilePath = "/app/logs/scuba.log"

	smtpServer     = "smtp.office365.com"
	smtpServerPort = 587
)

type CustomFormatter struct{}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	entry.Data["id"] = generateUniqueID()

	msg := fmt.Sprintf("[%s] [%s] [%s] %s\n",
		entry.Time.Format("2006-01-02T15:04:05Z07:00"),
		entry.Level,
		entry.Data["id"],
		entry.Message,
	)

	return []byte(msg), nil
}

func generateUniqueID() string {
	return fmt.Sprintf("ID-%d", time.Now().UnixNano())
}

func initLogger() {
	writer, err := rotatelogs.New(
		LogFilePath+"_%Y%m%d%H%M",
		rotatelogs.WithRotationTime(3*time.Minute),
	)
	if err != nil {
		Logger.Fatalf("Failed to create rotatelogs hook: %v", err)
	}
	Logger.SetOutput(writer)

	Logger.SetFormatter(&CustomFormatter{})
}

func NewServer(config *config.Config) *Server {
	return &Server{
		config: config,
	}
}

type indexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}

func (server *Server) initMongoClient(httpClient *http.Client) *mongo.Client {
	client, err := store.GetClientWithHTTPConfig(server.config.ScubaDBHost, server.config.ScubaDBPort, httpClient)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initBookingStore(tracer trace.Tracer) *store.BookingCassandraStore {
	storeLogger := log.New(os.Stdout, "[booking-store] ", log.LstdFlags)
	bookingStore, err := store.NewBookingCassandraStore(server.config.BookingDBHost, storeLogger, tracer)
	if err != nil {
		log.Fatal(err)
	}
	bookingStore.CreateTables()
	return bookingStore
}

func (server *Server) Start() {

	initLogger()

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	mongoClient := server.initMongoClient(httpClient)
	defer func(mongoClient *mongo.Client, ctx context.Context) {
		err := mongoClient.Disconnect(ctx)
		if err != nil {

		}
	}(mongoClient, context.Background())

	ctx := context.Background()
	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("scuba_backend")
	otel.SetTextMapPropagator(propagation.TraceContext{})

	diverStore := store.NewDiverMongoDBStore(mongoClient, tracer)
	centreStore := store.NewDiveCentreMongoDBStore(mongoClient, tracer)
	messageStore := store.NewMessageMongoDBStore(mongoClient, tracer)
	notificationStore := store.NewNotificationMongoDBStore(mongoClient, tracer)

	for _, s := range []interface{}{diverStore, centreStore} {
		if ensurer, ok := s.(indexEnsurer); ok {
			if err := ensurer.EnsureIndexes(ctx); err != nil {
				Logger.Println("Failed to ensure indexes:", err)
			}
		}
	}

	bookingStore := server.initBookingStore(tracer)
	defer bookingStore.CloseSession()

	neo4jDriver, err := store.GetNeo4JDriver(server.config.RecommendationDBHost, server.config.RecommendationDBPort,
		server.config.RecommendationDBUser, server.config.RecommendationDBPass)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = (*neo4jDriver).Close(ctx) }()
	recommendationStore := store.NewRecommendationNeo4JStore(neo4jDriver, tracer)

	imageCache, err := cache.New(server.config.ImageCacheHost, server.config.ImageCachePort, Logger, tracer)
	if err != nil {
		log.Fatal(err)
	}

	fileStorage, err := storage.New(server.config.HDFSUri, Logger, tracer)
	if err != nil {
		log.Fatal(err)
	}

	verifier, err := authorization.NewVerifier([]byte(server.config.SecretKey))
	if err != nil {
		log.Fatal(err)
	}

	hub := realtime.NewHub(Logger)

	notificationService := application.NewNotificationService(notificationStore, application.MailConfig{
		Server:   smtpServer,
		Port:     smtpServerPort,
		Email:    server.config.SMTPEmail,
		Password: server.config.SMTPPassword,
	}, Logger, tracer)

	diverService := application.NewDiverService(diverStore, tracer)
	centreService := application.NewDiveCentreService(centreStore, recommendationStore, Logger, tracer)
	bookingService := application.NewBookingService(diverStore, centreStore, bookingStore, recommendationStore,
		notificationService, Logger, tracer)
	messageService := application.NewMessageService(messageStore, hub, tracer)
	recommendationService := application.NewRecommendationService(recommendationStore, tracer)

	diverHandler := handlers.NewDiverHandler(diverService, fileStorage, imageCache, Logger, tracer)
	centreHandler := handlers.NewDiveCentreHandler(centreService, diverService, fileStorage, imageCache, Logger, tracer)
	bookingHandler := handlers.NewBookingHandler(bookingService, Logger, tracer)
	messageHandler := handlers.NewMessageHandler(messageService, hub, Logger, tracer)
	notificationHandler := handlers.NewNotificationHandler(notificationService, Logger, tracer)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService, Logger, tracer)

	authMiddleware := handlers.NewAuthMiddleware(verifier)

	server.start(authMiddleware, diverHandler, centreHandler, bookingHandler,
		messageHandler, notificationHandler, recommendationHandler)
}

func (server *Server) start(authMiddleware *handlers.AuthMiddleware, diverHandler *handlers.DiverHandler,
	centreHandler *handlers.DiveCentreHandler, bookingHandler *handlers.BookingHandler,
	messageHandler *handlers.MessageHandler, notificationHandler *handlers.NotificationHandler,
	recommendationHandler *handlers.RecommendationHandler) {

	router := mux.NewRouter()
	router.Use(handlers.MiddlewareContentTypeSet)

	casbinMiddleware, err := casbinAuthorization.InitializeCasbinMiddleware("./rbac_model.conf", "./policy.csv", Logger)
	if err != nil {
		log.Fatal(err)
	}

	api := router.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.VerifyToken)
	api.Use(casbinMiddleware)

	diverRouter := api.PathPrefix("/divers").Subrouter()
	bookingHandler.InitDiverRoutes(diverRouter)
	diverHandler.Init(diverRouter)

	centreRouter := api.PathPrefix("/dive-centres").Subrouter()
	centreHandler.Init(centreRouter)

	bookingRouter := api.PathPrefix("/bookings").Subrouter()
	bookingHandler.InitBookingRoutes(bookingRouter)

	messageRouter := api.PathPrefix("/messages").Subrouter()
	messageHandler.Init(messageRouter)

	notificationRouter := api.PathPrefix("/notifications").Subrouter()
	notificationHandler.Init(notificationRouter)

	recommendationRouter := api.PathPrefix("/recommendations").Subrouter()
	recommendationHandler.Init(recommendationRouter)

	cors := gorillaHandlers.CORS(gorillaHandlers.AllowedOrigins([]string{"*"}))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", server.config.Port),
		Handler: cors(router),
	}

	wait := time.Second * 15
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Error Shutting Down Server %s", err)
	}
	log.Println("Server Gracefully Stopped")
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("scuba_backend"),
		),
	)

	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}

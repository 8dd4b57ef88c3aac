package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	blockStaffTimeHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/block_staff_time"
	cancelAppointmentHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_available_slots"
	getCustomerAppointmentsHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_customer_appointments"
	getNextAvailabilityHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_next_availability"
	getSalonAppointmentsHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_salon_appointments"
	getSalonCalendarHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_salon_calendar"
	getSalonSummaryHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_salon_summary"
	rateAppointmentHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/rate_appointment"
	updateAppointmentHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/update_appointment"
	updateSalonCalendarHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/update_salon_calendar"
	updateStatusHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/update_status"
	"github.com/m04kA/SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SalonBookingService/internal/config"
	"github.com/m04kA/SalonBookingService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/appointment"
	revenueRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/revenue"
	salonRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/salon"
	catalogServiceClient "github.com/m04kA/SalonBookingService/internal/integrations/catalogservice"
	appointmentsService "github.com/m04kA/SalonBookingService/internal/service/appointments"
	salonsService "github.com/m04kA/SalonBookingService/internal/service/salons"
	createAppointmentUC "github.com/m04kA/SalonBookingService/internal/usecase/create_appointment"
	findNextAvailabilityUC "github.com/m04kA/SalonBookingService/internal/usecase/find_next_availability"
	getAvailableSlotsUC "github.com/m04kA/SalonBookingService/internal/usecase/get_available_slots"
	updateStatusUC "github.com/m04kA/SalonBookingService/internal/usecase/update_status"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/logger"
	"github.com/m04kA/SalonBookingService/pkg/metrics"
	"github.com/m04kA/SalonBookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SalonBookingService...")

	// Инициализируем метрики (если включены).
	// Коллектор nil-safe, поэтому при выключенных метриках передаем nil.
	var (
		metricsCollector *metrics.Metrics
		dbObserver       dbmetrics.Observer
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbObserver = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, dbObserver, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Блокировка создания записи: в памяти процесса или в Redis для нескольких реплик
	var locker createAppointmentUC.Locker
	switch cfg.Booking.LockBackend {
	case config.LockBackendRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}

		locker = lock.NewRedisLocker(redisClient, cfg.Booking.LockTTLDuration(), cfg.Booking.LockRetryDuration(), log)
		log.Info("Booking lock: redis (addr=%s)", cfg.Redis.Addr)
	default:
		locker = lock.NewLocalLocker()
		log.Info("Booking lock: local")
	}

	// Интеграционные клиенты
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Catalog client initialized (url=%s, timeout=%ds)", cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	revenueRepository := revenueRepo.NewRepository(wrappedDB)
	salonRepository := salonRepo.NewRepository(wrappedDB)

	// Сервисы
	appointmentSvc := appointmentsService.NewService(appointmentRepository, salonRepository, metricsCollector, log)
	salonSvc := salonsService.NewService(salonRepository, log)

	// Use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		salonRepository,
		catalogClient,
		locker,
		txMgr,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		salonRepository,
		log,
	)
	findNextAvailabilityUseCase := findNextAvailabilityUC.NewUseCase(
		appointmentRepository,
		salonRepository,
		metricsCollector,
		log,
	)
	updateStatusUseCase := updateStatusUC.NewUseCase(
		appointmentRepository,
		revenueRepository,
		salonRepository,
		metricsCollector,
		cfg.Booking.StatusUpdateRetries,
		log,
	)

	// Handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	updateStatus := updateStatusHandler.NewHandler(updateStatusUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointment := updateAppointmentHandler.NewHandler(appointmentSvc, log)
	rateAppointment := rateAppointmentHandler.NewHandler(appointmentSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentSvc, log)
	getSalonAppointments := getSalonAppointmentsHandler.NewHandler(appointmentSvc, log)
	getSalonSummary := getSalonSummaryHandler.NewHandler(appointmentSvc, log)
	blockStaffTime := blockStaffTimeHandler.NewHandler(appointmentSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getNextAvailability := getNextAvailabilityHandler.NewHandler(findNextAvailabilityUseCase, log)
	getSalonCalendar := getSalonCalendarHandler.NewHandler(salonSvc, log)
	updateSalonCalendar := updateSalonCalendarHandler.NewHandler(salonSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Tracing(cfg.Metrics.ServiceName))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	// Дедлайн на все обращения к хранилищу в рамках запроса
	api.Use(middleware.Timeout(cfg.Booking.StoreTimeoutDuration()))

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/salons/{salonId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/salons/{salonId}/next-availability", getNextAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/salons/{salonId}/calendar", getSalonCalendar.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", updateAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/rating", rateAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/customers/{customerId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// --- Управление салоном (для владельцев) ---
	protected.HandleFunc("/salons/{salonId}/appointments", getSalonAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/salons/{salonId}/appointments/summary", getSalonSummary.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/salons/{salonId}/staff-blocks", blockStaffTime.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/salons/{salonId}/calendar", updateSalonCalendar.Handle).Methods(http.MethodPut)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

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

	cancelBookingHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_booking"
	getPaymentHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_payment"
	getUserBookingsHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_user_bookings"
	listPackagesHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/list_packages"
	submitPaymentHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/submit_payment"
	updateBookingHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/update_booking"
	updateStatusHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/update_status"
	verifyPaymentHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/verify_payment"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/config"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/payment"
	packageRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/rentalpackage"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notify"
	"github.com/m04kA/SMC-RentalService/internal/jobs"
	"github.com/m04kA/SMC-RentalService/internal/policy"
	"github.com/m04kA/SMC-RentalService/internal/pricing"
	bookingsService "github.com/m04kA/SMC-RentalService/internal/service/bookings"
	paymentsService "github.com/m04kA/SMC-RentalService/internal/service/payments"
	createBookingUC "github.com/m04kA/SMC-RentalService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-RentalService/internal/usecase/get_availability"
	updateBookingUC "github.com/m04kA/SMC-RentalService/internal/usecase/update_booking"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
	"github.com/m04kA/SMC-RentalService/pkg/metrics"
	"github.com/m04kA/SMC-RentalService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-RentalService/pkg/txmanager"
)

// txManager объединяет варианты transaction manager с метриками и без
type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// notifier объединяет SendGrid клиент и заглушку
type notifier interface {
	createBookingUC.Notifier
	bookingsService.Notifier
	paymentsService.Notifier
}

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

	log.Info("Starting SMC-RentalService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		paymentRepository *paymentRepo.Repository
		packageRepository *packageRepo.Repository
		txMgr             txManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		packageRepository = packageRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		packageRepository = packageRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем калькулятор цен
	holidays, err := pricing.NewHolidaySet(cfg.Pricing.Holidays)
	if err != nil {
		log.Fatal("Failed to parse holidays: %v", err)
	}
	priceCalculator := pricing.NewCalculator(pricing.Rates{
		Day2:           cfg.Pricing.Day2Rate,
		Day36:          cfg.Pricing.Day36Rate,
		Day7Plus:       cfg.Pricing.Day7PlusRate,
		WeekendHoliday: cfg.Pricing.WeekendHolidayRate,
	}, holidays)
	log.Info("Price calculator initialized (%d holidays, vat=%.2f)", len(holidays), cfg.Pricing.VATRate)

	// Политика изменения и отмены
	buckets := make([]policy.PenaltyBucket, 0, len(cfg.Cancellation.Buckets))
	for _, b := range cfg.Cancellation.Buckets {
		buckets = append(buckets, policy.PenaltyBucket{MaxLeadDays: b.MaxLeadDays, Rate: b.Rate})
	}
	cancellationPolicy := policy.NewCancellationPolicy(
		time.Duration(cfg.Cancellation.EditCutoffHours)*time.Hour,
		buckets,
	)

	// Уведомления
	var notifyClient notifier
	if cfg.Notifications.Enabled {
		notifyClient = notify.NewClient(
			cfg.Notifications.SendGridAPIKey,
			cfg.Notifications.FromName,
			cfg.Notifications.FromEmail,
			cfg.Notifications.OpsEmail,
			log,
		)
		log.Info("Email notifications enabled (ops=%s)", cfg.Notifications.OpsEmail)
	} else {
		notifyClient = notify.NewNop()
	}

	admissionTimeout := time.Duration(cfg.Server.AdmissionTimeout) * time.Second

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		cancellationPolicy,
		notifyClient,
		log,
	)
	paymentSvc := paymentsService.NewService(
		paymentRepository,
		bookingRepository,
		txMgr,
		notifyClient,
		log,
		cfg.Pricing.DepositPercent,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		packageRepository,
		priceCalculator,
		txMgr,
		notifyClient,
		log,
		cfg.Pricing.VATRate,
		cfg.Pricing.DepositPercent,
		admissionTimeout,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		packageRepository,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		packageRepository,
		priceCalculator,
		cancellationPolicy,
		txMgr,
		log,
		cfg.Pricing.VATRate,
		admissionTimeout,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	updateStatus := updateStatusHandler.NewHandler(bookingSvc, log)
	submitPayment := submitPaymentHandler.NewHandler(paymentSvc, log)
	verifyPayment := verifyPaymentHandler.NewHandler(paymentSvc, log)
	getPayment := getPaymentHandler.NewHandler(paymentSvc, log)
	listPackages := listPackagesHandler.NewHandler(packageRepository, log)

	// Фоновые задачи
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		expireJob := jobs.NewExpireUnpaidJob(
			bookingRepository,
			log,
			time.Duration(cfg.Jobs.UnpaidDeadlineHours)*time.Hour,
		)
		if err := scheduler.RegisterExpireUnpaid(cfg.Jobs.ExpireUnpaidSchedule, expireJob); err != nil {
			log.Fatal("Failed to register background jobs: %v", err)
		}
		scheduler.Start()
		log.Info("Background jobs started")
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Список активных пакетов аренды
	api.HandleFunc("/packages", listPackages.Handle).Methods(http.MethodGet)

	// Занятость пакета по дням
	api.HandleFunc("/packages/{packageId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Изменение бронирования (повторный admission на новые даты)
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Платежи ---
	// Прикрепление слипа депозита
	protected.HandleFunc("/bookings/{bookingId}/payment", submitPayment.Handle).Methods(http.MethodPost)

	// Платёж по бронированию
	protected.HandleFunc("/bookings/{bookingId}/payment", getPayment.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (дополнительно требуют X-User-Role: admin)
	// ============================================================

	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.AdminOnly)

	// Смена статуса бронирования
	admin.HandleFunc("/bookings/{bookingId}/status", updateStatus.Handle).Methods(http.MethodPatch)

	// Проверка депозитного платежа
	admin.HandleFunc("/bookings/{bookingId}/payment/verify", verifyPayment.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи
	if scheduler != nil {
		scheduler.Stop()
		log.Info("Background jobs stopped")
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"course-backend/cache"
	"course-backend/config"
	"course-backend/database"
	"course-backend/handlers"
	"course-backend/repository"
	"course-backend/service"

	"github.com/gorilla/mux"
	"github.com/olekukonko/tablewriter"
)

func main() {
	log.Println("🚀 Starting Course Backend Server...")

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Error loading configuration: ", err)
	}
	log.Printf("📋 Configuration loaded: Server Port %s, store=%s, cache=%s",
		cfg.ServerPort, cfg.StoreBackend, cfg.CacheBackend)

	// Хранилище курсов и студентов
	var store service.Store
	var healthHandler *handlers.HealthHandler
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Println("⚠️ Using in-memory store, data is lost on restart")
		store = repository.NewMemoryStore()
		healthHandler = handlers.NewHealthHandler(nil, cfg.StoreBackend)
	default:
		db, err := database.InitDB(cfg)
		if err != nil {
			log.Fatal("❌ Error initializing database: ", err)
		}
		defer db.Close()

		if err := database.Migrate(db.Gorm); err != nil {
			log.Fatal("❌ Error migrating database: ", err)
		}
		store = repository.NewCourseRepository(db.Gorm)
		healthHandler = handlers.NewHealthHandler(db, cfg.StoreBackend)
	}

	// Кэш разнообразия доменов
	slot, closeSlot := newDiversitySlot(cfg)
	defer closeSlot()
	diversity := cache.NewDiversityCache(slot, cfg.CacheTTL)

	courseService := service.NewCourseService(store, diversity)

	// Инициализация обработчиков
	courseHandler := handlers.NewCourseHandler(courseService)
	studentHandler := handlers.NewStudentHandler(courseService)

	r := handlers.NewRouter(courseHandler, studentHandler, healthHandler, cfg.CORSOrigin)
	if cfg.PrintRoutes {
		printRoutes(r)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("✅ Server successfully started on %s", srv.Addr)
		log.Printf("🌐 Available at: http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ Server error: ", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
}

func newDiversitySlot(cfg *config.Config) (cache.Slot, func()) {
	if cfg.CacheBackend != config.BackendRedis {
		return cache.NewMemorySlot(), func() {}
	}

	client, err := cache.NewRedisClient(cache.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatal("❌ Error connecting to Redis: ", err)
	}
	log.Printf("✅ Domain diversity cache shared through Redis at %s:%d", cfg.RedisHost, cfg.RedisPort)

	return cache.NewRedisSlot(client), func() {
		if err := client.Close(); err != nil {
			log.Printf("❌ Error closing Redis: %v", err)
		}
	}
}

// printRoutes выводит таблицу зарегистрированных маршрутов
func printRoutes(r *mux.Router) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Method", "Path"})

	err := r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			return nil
		}
		table.Append([]string{strings.Join(methods, ", "), path})
		return nil
	})
	if err != nil {
		log.Printf("⚠️ Could not list routes: %v", err)
		return
	}

	table.Render()
}

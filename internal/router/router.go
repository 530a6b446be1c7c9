package router

import (
	"database/sql"
	"net/http"

	_ "petworld/docs"
	mem "petworld/internal/adapters/storage/memory"
	pg "petworld/internal/adapters/storage/postgres"
	"petworld/internal/adapters/storage/sqlite"
	"petworld/internal/adapters/storage/sqltx"
	"petworld/internal/domain/pets"
	"petworld/internal/domain/users"
	"petworld/internal/middleware"
	"petworld/internal/platform/clock"
	"petworld/internal/platform/logger"
	"petworld/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: con DB se usa Driver (postgres por defecto). Sin DB, in-memory.
	DB     *sql.DB
	Driver string

	Logger   logger.Logger
	Clock    clock.Clock
	Notifier pets.Notifier
}

type repos struct {
	pets         pets.Repository
	interactions pets.InteractionRepository
	users        users.Repository
	tx           pets.TxManager
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	svc := NewServices(opts)

	// Rutas por módulo
	users.RegisterRoutes(r, svc.Users)
	pets.RegisterRoutes(r, svc.Pets)

	return otelhttp.NewHandler(r, "petworld.http")
}

// Services es lo que consumen las rutas y los comandos que no levantan HTTP.
type Services struct {
	Users *users.Service
	Pets  *pets.Service
}

func NewServices(opts Options) Services {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	rp := buildRepos(opts)
	return Services{
		Users: users.NewService(rp.users),
		Pets: pets.NewService(pets.Deps{
			Pets:         rp.pets,
			Interactions: rp.interactions,
			Users:        rp.users,
			Tx:           rp.tx,
			Clock:        opts.Clock,
			Notifier:     opts.Notifier,
			Logger:       log,
		}),
	}
}

func buildRepos(opts Options) repos {
	if opts.DB == nil {
		store := mem.NewStore()
		return repos{
			pets:         mem.NewPetRepo(store),
			interactions: mem.NewInteractionRepo(store),
			users:        mem.NewUserRepo(store),
			tx:           store,
		}
	}

	if opts.Driver == DriverSQLite {
		return repos{
			pets:         sqlite.NewPetsRepo(opts.DB),
			interactions: sqlite.NewInteractionsRepo(opts.DB),
			users:        sqlite.NewUsersRepo(opts.DB),
			tx:           sqltx.NewManager(opts.DB),
		}
	}
	return repos{
		pets:         pg.NewPetsRepo(opts.DB),
		interactions: pg.NewInteractionsRepo(opts.DB),
		users:        pg.NewUsersRepo(opts.DB),
		tx:           sqltx.NewManager(opts.DB),
	}
}

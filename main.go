package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	appcron "github.com/Navneet1206/appoint-healers/cron"

	"github.com/Navneet1206/appoint-healers/clients/twilio"
	"github.com/Navneet1206/appoint-healers/clients/zoom"
	"github.com/Navneet1206/appoint-healers/config"
	"github.com/Navneet1206/appoint-healers/db"
	"github.com/Navneet1206/appoint-healers/redis"
	"github.com/Navneet1206/appoint-healers/routes"
	"github.com/Navneet1206/appoint-healers/services/notification"
	"github.com/Navneet1206/appoint-healers/services/otp"
	"github.com/Navneet1206/appoint-healers/services/token"
	"github.com/Navneet1206/appoint-healers/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	log.Println("✅ Database connection established successfully!")

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := db.Migrate(database); err != nil {
			log.Fatal(err)
		}
		return
	}

	rdb, err := redis.New(cfg.RedisAddr)
	if err != nil {
		log.Printf("Warning: %v. Listing cache disabled.", err)
		rdb = nil
	}

	dispatcher := notification.NewDispatcher(
		database,
		notification.NewMailer(cfg.SMTP),
		twilio.NewClient(cfg.Twilio),
	)
	dispatcher.Start()
	defer dispatcher.Stop()

	tokens := token.NewService(
		cfg.JWTSecret,
		time.Duration(cfg.AccessTokenTTL)*time.Minute,
		time.Duration(cfg.RefreshTokenTTL)*time.Hour,
	)

	jobs := appcron.NewJobs(database, dispatcher)
	if err := jobs.Start(); err != nil {
		log.Fatal(err)
	}
	defer jobs.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowCredentials: false,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Appoint Healers API")
	})

	routes.Setup(app, routes.Deps{
		DB:         database,
		Redis:      rdb,
		Cfg:        cfg,
		Tokens:     tokens,
		OTPs:       otp.NewService(),
		Dispatcher: dispatcher,
		Zoom:       zoom.NewClient(cfg.Zoom),
	})

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

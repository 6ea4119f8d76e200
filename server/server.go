package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"

	"rental-browser/models"
	"rental-browser/observability"
	"rental-browser/services"
	"rental-browser/utils"
)

type ServerConfig struct {
	// Session holding the collection being served
	Session *services.Session

	// Insights computes the /api/report payload
	Insights *services.InsightService

	// Source name reported by /api/status
	Source string

	Logger *utils.Logger

	// ReloadContext is the parent of loads started by POST /api/reload.
	// Defaults to context.Background().
	ReloadContext context.Context
}

// listingPayload is a Listing as served over HTTP.
type listingPayload struct {
	models.Listing
	InquirySubject string   `json:"inquiry_subject"`
	Gaps           []string `json:"gaps,omitempty"`
}

type listingsResponse struct {
	Listings []listingPayload `json:"listings"`
	Count    int              `json:"count"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
}

type statusResponse struct {
	Source     string     `json:"source"`
	Loading    bool       `json:"loading"`
	Error      string     `json:"error,omitempty"`
	Generation uint64     `json:"generation"`
	LoadedAt   *time.Time `json:"loaded_at,omitempty"`
	Count      int        `json:"count"`
}

func toPayload(l models.Listing) listingPayload {
	return listingPayload{
		Listing:        l,
		InquirySubject: l.InquirySubject(),
		Gaps:           l.Gaps.Names(),
	}
}

// ParamsFromQuery reads query parameters the way the listing endpoint does.
func ParamsFromQuery(c *fiber.Ctx) services.Params {
	return services.Params{
		Text:     c.Query("q"),
		Beds:     c.Query("beds", services.AnyBeds),
		MinPrice: c.Query("min"),
		MaxPrice: c.Query("max"),
		District: queryOr(c, "district", services.AllDistricts),
		Sort:     c.Query("sort", services.SortPriceAsc),
	}
}

// queryOr returns def only when key is absent. c.Query also substitutes the
// default for an empty value, which would turn district= into "all".
func queryOr(c *fiber.Ctx, key, def string) string {
	if !c.Context().QueryArgs().Has(key) {
		return def
	}
	return c.Query(key)
}

// Server returns a fiber.App serving queries over the session's collection.
func Server(config *ServerConfig) *fiber.App {
	session := config.Session
	logger := config.Logger
	reloadCtx := config.ReloadContext
	if reloadCtx == nil {
		reloadCtx = context.Background()
	}

	app := fiber.New(fiber.Config{
		AppName:               "rental-browser",
		DisableStartupMessage: true,
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		logger.WithFields(utils.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start),
		}).Debug("[http] Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Get("/listings", func(c *fiber.Ctx) error {
		snap := session.Snapshot()
		result := services.Evaluate(snap.Listings, ParamsFromQuery(c))
		observability.QueryEvaluations.Inc()

		return c.JSON(listingsResponse{
			Listings: lo.Map(result, func(l models.Listing, _ int) listingPayload { return toPayload(l) }),
			Count:    len(result),
			Loading:  snap.Loading,
			Error:    snap.Err,
		})
	})

	api.Get("/districts", func(c *fiber.Ctx) error {
		return c.JSON(services.Districts(session.Snapshot().Listings))
	})

	api.Get("/status", func(c *fiber.Ctx) error {
		snap := session.Snapshot()
		resp := statusResponse{
			Source:     config.Source,
			Loading:    snap.Loading,
			Error:      snap.Err,
			Generation: snap.Generation,
			Count:      len(snap.Listings),
		}
		if !snap.LoadedAt.IsZero() {
			resp.LoadedAt = &snap.LoadedAt
		}
		return c.JSON(resp)
	})

	api.Post("/reload", func(c *fiber.Ctx) error {
		done := session.RefreshAsync(reloadCtx)
		go func() {
			if err := <-done; err != nil {
				logger.Warn("[http] Reload did not apply: %v", err)
			}
		}()
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "reloading"})
	})

	api.Get("/report", func(c *fiber.Ctx) error {
		return c.JSON(config.Insights.Generate(session.Snapshot().Listings))
	})

	return app
}

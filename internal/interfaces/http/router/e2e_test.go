package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/gin-gonic/gin"
	fulfillmentapp "github.com/orderfeed/backend/internal/application/fulfillment"
	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/orderfeed/backend/internal/domain/fulfillment"
	"github.com/orderfeed/backend/internal/infrastructure/feed"
	"github.com/orderfeed/backend/internal/infrastructure/metrics"
	"github.com/orderfeed/backend/internal/infrastructure/persistence"
	"github.com/orderfeed/backend/internal/infrastructure/persistence/models"
	"github.com/orderfeed/backend/internal/interfaces/http/handler"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const e2ePath = "/oneshipstation/process"

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// openPostgres starts a throwaway PostgreSQL container. Skipped in -short mode
// and when no container runtime is reachable.
func openPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("orderfeed_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type feedApp struct {
	engine *gin.Engine
	db     *gorm.DB
}

// newFeedApp wires the same graph as cmd/server against db
func newFeedApp(t *testing.T, db *gorm.DB) *feedApp {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, persistence.Migrate(ctx, db, true))
	require.NoError(t, persistence.EnsureOrderStatus(ctx, db, commerce.StatusShipped, "Shipped"))

	orders := persistence.NewGormOrderRepository(db)
	statuses := persistence.NewGormOrderStatusRepository(db)
	shippingInfos := persistence.NewGormShippingInfoRepository(db)

	hooks := fulfillment.NewHooks()
	require.NoError(t, fulfillmentapp.RegisterCustomFieldMappings(hooks, map[string]string{"customfield1": "giftWrap"}))

	serializer := feed.NewSerializer(feed.Options{
		OrderIDPrefix: "web-",
		WeightUnit:    commerce.ParseWeightUnit("g"),
		Hooks:         hooks,
	})
	query := fulfillmentapp.NewOrderQueryService(orders, hooks, 2)
	exports := fulfillmentapp.NewExportService(query, serializer, time.UTC)
	tracking := fulfillmentapp.NewTrackingLinkResolver(hooks, shippingInfos)
	shipments := fulfillmentapp.NewShipmentService(orders, statuses, shippingInfos, tracking)

	registry := metrics.NewRegistry()
	engine := NewEngine(EngineConfig{MaxBodySize: 1 << 20, Metrics: registry, MetricsPath: "/metrics"}, zap.NewNop())
	NewRouter(engine).
		Register(handler.NewHealthHandler(pingerFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}))).
		Register(handler.NewFulfillmentHandler(e2ePath, handler.Credentials{Username: "hello", Password: "world"}, exports, shipments, registry)).
		Setup()

	return &feedApp{engine: engine, db: db}
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func (a *feedApp) do(t *testing.T, method, query string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, e2ePath+"?"+query, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, e2ePath+"?"+query, nil)
	}
	req.SetBasicAuth("hello", "world")
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// seedStore inserts three completed orders on 2024-03-10 and one cart
func seedStore(t *testing.T, db *gorm.DB) {
	t.Helper()
	processing := models.OrderStatusModel{Handle: "processing", Name: "Processing"}
	require.NoError(t, db.Create(&processing).Error)

	country := models.CountryModel{ISO: "US", Name: "United States"}
	require.NoError(t, db.Create(&country).Error)
	address := models.AddressModel{FirstName: "Ada", LastName: "Lovelace", Address1: "1 Main St", City: "Springfield", CountryID: &country.ID}
	require.NoError(t, db.Create(&address).Error)

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	for i, number := range []string{"1001", "1002", "1003", "cart"} {
		ordered := day.Add(time.Duration(i+1) * time.Hour)
		row := models.OrderModel{
			Number:            number,
			TotalPrice:        decimal.RequireFromString("20.00"),
			DateOrdered:       &ordered,
			BillingAddressID:  &address.ID,
			ShippingAddressID: &address.ID,
			LineItems: []models.LineItemModel{{
				SKU:       "SKU-" + number,
				Qty:       1,
				Price:     decimal.RequireFromString("20.00"),
				SalePrice: decimal.RequireFromString("20.00"),
				Weight:    decimal.RequireFromString("150"),
			}},
		}
		if number != "cart" {
			row.OrderStatusID = &processing.ID
		}
		if number == "1001" {
			row.CustomFields = datatypes.JSONMap{"giftWrap": "yes"}
		}
		require.NoError(t, db.Create(&row).Error)
	}
}

func exportedNumbers(t *testing.T, body []byte) (numbers []string, pages string) {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(body))
	root := doc.SelectElement("Orders")
	require.NotNil(t, root)
	for _, o := range root.SelectElements("Order") {
		numbers = append(numbers, o.SelectElement("OrderNumber").Text())
	}
	return numbers, root.SelectAttrValue("pages", "")
}

func runFulfillmentFlow(t *testing.T, db *gorm.DB) {
	app := newFeedApp(t, db)
	seedStore(t, db)

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("export pages through completed orders", func(t *testing.T) {
		var all []string
		for _, page := range []string{"1", "2"} {
			w := app.do(t, http.MethodGet, "action=export&start_date=03/10/2024&end_date=03/10/2024&page="+page, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Contains(t, w.Header().Get("Content-Type"), "xml")

			numbers, pages := exportedNumbers(t, w.Body.Bytes())
			assert.Equal(t, "2", pages)
			all = append(all, numbers...)
		}
		assert.Equal(t, []string{"1001", "1002", "1003"}, all)
	})

	t.Run("export carries custom field", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "action=export&page=1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<CustomField1><![CDATA[yes]]></CustomField1>")
		assert.Contains(t, w.Body.String(), "<OrderID><![CDATA[web-")
	})

	t.Run("shipnotify marks order shipped", func(t *testing.T) {
		form := url.Values{
			"order_number":    {"1002"},
			"carrier":         {"UPS"},
			"service":         {"Ground"},
			"tracking_number": {"1Z999"},
		}
		w := app.do(t, http.MethodPost, "action=shipnotify", form)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"success":true}`, w.Body.String())

		var row models.OrderModel
		require.NoError(t, app.db.Preload("OrderStatus").Where("number = ?", "1002").First(&row).Error)
		require.NotNil(t, row.OrderStatus)
		assert.Equal(t, commerce.StatusShipped, row.OrderStatus.Handle)
		assert.Contains(t, row.Message, "1Z999")

		var infos []models.ShippingInfoModel
		require.NoError(t, app.db.Where("order_id = ?", row.ID).Find(&infos).Error)
		require.Len(t, infos, 1)
		assert.True(t, infos[0].Active)
		assert.Equal(t, "UPS", infos[0].Carrier)
	})

	t.Run("second shipnotify supersedes the first", func(t *testing.T) {
		form := url.Values{"order_number": {"1002"}, "carrier": {"USPS"}, "tracking_number": {"9400"}}
		w := app.do(t, http.MethodPost, "action=shipnotify", form)
		require.Equal(t, http.StatusOK, w.Code)

		var infos []models.ShippingInfoModel
		require.NoError(t, app.db.Order("id ASC").Find(&infos).Error)
		require.Len(t, infos, 2)
		assert.False(t, infos[0].Active)
		assert.True(t, infos[1].Active)
	})

	t.Run("shipnotify unknown order", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "action=shipnotify", url.Values{"order_number": {"9999"}})
		assert.Equal(t, http.StatusNotFound, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Order with number '9999' not found", body["message"])
	})

	t.Run("shipnotify without order number", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "action=shipnotify", url.Values{"carrier": {"UPS"}})
		assert.Equal(t, http.StatusNotAcceptable, w.Code)
	})
}

func TestFulfillmentFlow_SQLite(t *testing.T) {
	runFulfillmentFlow(t, openSQLite(t))
}

func TestFulfillmentFlow_Postgres(t *testing.T) {
	runFulfillmentFlow(t, openPostgres(t))
}

// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	statusOffShelf int16 = 1
	statusOnShelf  int16 = 2
	statusSoldOut  int16 = 3
)

// seedProduct mirrors the products table row the seeder inserts.
type seedProduct struct {
	ID            uuid.UUID
	Name          string
	SerialNumber  string
	Description   string
	CategoryID    int64
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Stock         int
	Sales         int
	Status        int16
	Sort          int
	Unit          string
	Specs         map[string]any
	IsHot         bool
	IsRecommend   bool
	ShelfTime     *time.Time
	CreatedBy     int64
	Remark        string
}

var sampleNames = []string{
	"无线蓝牙耳机", "机械键盘", "保温杯", "便携充电宝", "智能手环",
	"陶瓷马克杯", "降噪头戴耳机", "桌面加湿器", "折叠雨伞", "真皮钱包",
	"运动水壶", "电竞鼠标", "香薰蜡烛", "不锈钢刀具套装", "羊毛围巾",
	"智能体脂秤", "车载手机支架", "速干运动毛巾", "迷你蓝牙音箱", "玻璃茶壶",
}

var sampleUnits = []string{"件", "个", "台", "套", "盒"}

var sampleRemarks = []string{
	"", "", "热销补货", "新品首发", "季末清仓", "供应商直采",
}

func main() {
	var (
		count    = flag.Int("count", 50, "Number of products to generate")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "Random seed for reproducible runs")
		creator  = flag.Int64("creator", 1, "User ID recorded as created_by")
		logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun   = flag.Bool("dry-run", false, "Preview generated products without touching the database")
	)
	flag.Parse()

	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)

	rng := rand.New(rand.NewSource(*seed))
	products := generateProducts(rng, *count, *creator)

	logger.Info("generated seed products",
		slog.Int("count", len(products)),
		slog.Int64("seed", *seed))

	if *dryRun {
		for _, p := range products {
			logger.Info("would insert product",
				slog.String("serial", p.SerialNumber),
				slog.String("name", p.Name),
				slog.String("price", p.Price.StringFixed(2)),
				slog.Int("stock", p.Stock))
		}
		return
	}

	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "catalog"),
		getEnv("DB_PASSWORD", "catalog_dev_2025"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "catalog"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := saveProducts(ctx, pool, products, logger); err != nil {
		logger.Error("failed to seed products", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seeding complete", slog.Int("count", len(products)))
}

func generateProducts(rng *rand.Rand, count int, creator int64) []seedProduct {
	dayPrefix := time.Now().Format("20060102")
	products := make([]seedProduct, 0, count)

	for i := 0; i < count; i++ {
		name := sampleNames[rng.Intn(len(sampleNames))]
		price := decimal.NewFromFloat(float64(rng.Intn(49900)+100) / 100)

		var originalPrice *decimal.Decimal
		if rng.Intn(3) == 0 {
			op := price.Mul(decimal.NewFromFloat(1.25)).Round(2)
			originalPrice = &op
		}

		stock := rng.Intn(200)
		status := statusOffShelf
		var shelfTime *time.Time
		switch {
		case stock == 0:
			status = statusSoldOut
		case rng.Intn(4) > 0:
			status = statusOnShelf
			t := time.Now().Add(-time.Duration(rng.Intn(72)) * time.Hour)
			shelfTime = &t
		}

		products = append(products, seedProduct{
			ID:            uuid.New(),
			Name:          fmt.Sprintf("%s %d代", name, rng.Intn(5)+1),
			SerialNumber:  fmt.Sprintf("SP%s%04d", dayPrefix, i+1),
			Description:   fmt.Sprintf("%s，质保一年", name),
			CategoryID:    int64(rng.Intn(20) + 1),
			Price:         price,
			OriginalPrice: originalPrice,
			Stock:         stock,
			Sales:         rng.Intn(500),
			Status:        status,
			Sort:          rng.Intn(100),
			Unit:          sampleUnits[rng.Intn(len(sampleUnits))],
			Specs: map[string]any{
				"color":  []string{"黑色", "白色", "银色"}[rng.Intn(3)],
				"origin": "国产",
			},
			IsHot:       rng.Intn(5) == 0,
			IsRecommend: rng.Intn(5) == 0,
			ShelfTime:   shelfTime,
			CreatedBy:   creator,
			Remark:      sampleRemarks[rng.Intn(len(sampleRemarks))],
		})
	}

	return products
}

func saveProducts(ctx context.Context, pool *pgxpool.Pool, products []seedProduct, logger *slog.Logger) error {
	if len(products) == 0 {
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}

	maxSeq := 0
	for _, p := range products {
		specsJSON, err := json.Marshal(p.Specs)
		if err != nil {
			return fmt.Errorf("failed to marshal specs for %s: %w", p.SerialNumber, err)
		}

		batch.Queue(`
			INSERT INTO products (
				id, name, serial_number, description, category_id,
				price, original_price, stock, sales, status,
				sort, unit, specs, is_hot, is_recommend,
				shelf_time, created_by, remark
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17, $18
			) ON CONFLICT (serial_number) DO NOTHING`,
			p.ID, p.Name, p.SerialNumber, p.Description, p.CategoryID,
			p.Price, p.OriginalPrice, p.Stock, p.Sales, p.Status,
			p.Sort, p.Unit, specsJSON, p.IsHot, p.IsRecommend,
			p.ShelfTime, p.CreatedBy, p.Remark,
		)
		maxSeq++
	}

	// Advance the serial counter past the seeded range so the API does not
	// hand out serials the seeder already used.
	dayPrefix := "SP" + time.Now().Format("20060102")
	batch.Queue(`
		INSERT INTO product_serial_counters (day_prefix, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (day_prefix)
		DO UPDATE SET value = GREATEST(product_serial_counters.value, EXCLUDED.value), updated_at = NOW()`,
		dayPrefix, maxSeq,
	)

	br := tx.SendBatch(ctx, batch)
	for i := 0; i <= len(products); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert batch entry: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("saved products to database", slog.Int("count", len(products)))
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

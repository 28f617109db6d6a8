package config

import (
	"github.com/glebarez/sqlite"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"grocery-delivery-api/models"
)

var DB *gorm.DB

// InitDB opens the database, runs migrations and seeds the product
// catalog on first run.
func InitDB(path string) {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		logrus.Fatalf("failed to migrate database: %v", err)
	}

	logrus.Info("database connected and migrated")
}

// Migrate applies the schema and catalog seed to any gorm handle; tests
// use it against in-memory databases.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.SettlementClaim{},
	); err != nil {
		return err
	}
	return seedCatalog(db)
}

// seedCatalog loads the fixed grocery catalog. Seeding is skipped once
// any products exist; prices captured on past orders are snapshots and
// unaffected either way.
func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	catalog := []models.Product{
		{Name: "Coca-Cola 250ml", Price: 40, Category: "Beverages", Unit: "bottle", Image: "/images/coca-cola-250ml.jpg"},
		{Name: "Mojo 250ml", Price: 35, Category: "Beverages", Unit: "bottle", Image: "/images/mojo-250ml.jpg"},
		{Name: "Fresh Cola 250ml", Price: 30, Category: "Beverages", Unit: "bottle", Image: "/images/fresh-cola-250ml.jpg"},
		{Name: "Speed Energy Drink", Price: 40, Category: "Beverages", Unit: "bottle", Image: "/images/speed-energy-drink.jpg"},
		{Name: "RC Cola 250ml", Price: 25, Category: "Beverages", Unit: "bottle", Image: "/images/rc-cola-250ml.jpg"},
		{Name: "Clemon 250ml", Price: 30, Category: "Beverages", Unit: "bottle", Image: "/images/clemon-250ml.jpg"},
		{Name: "Mountain Dew 250ml", Price: 35, Category: "Beverages", Unit: "bottle", Image: "/images/mountain-dew-250ml.jpg"},
		{Name: "Fanta 250ml", Price: 40, Category: "Beverages", Unit: "bottle", Image: "/images/fanta-250ml.jpg"},
		{Name: "Sprite 250ml", Price: 40, Category: "Beverages", Unit: "bottle", Image: "/images/sprite-250ml.jpg"},
		{Name: "Pepsi 250ml", Price: 35, Category: "Beverages", Unit: "bottle", Image: "/images/pepsi-250ml.jpg"},
		{Name: "Poto Cracker", Price: 10, Category: "Chips & Crackers", Unit: "pack", Image: "/images/poto-cracker.jpg"},
		{Name: "Detos Chips", Price: 15, Category: "Chips & Crackers", Unit: "pack", Image: "/images/detos-chips.jpg"},
		{Name: "Mr. Twist", Price: 10, Category: "Chips & Crackers", Unit: "pack", Image: "/images/mr-twist.jpg"},
		{Name: "Ring Chips", Price: 10, Category: "Chips & Crackers", Unit: "pack", Image: "/images/ring-chips.jpg"},
		{Name: "Krispy Crackers", Price: 15, Category: "Chips & Crackers", Unit: "pack", Image: "/images/krispy-crackers.jpg"},
		{Name: "Mr. Noodles Chips", Price: 20, Category: "Chips & Crackers", Unit: "pack", Image: "/images/mr-noodles-chips.jpg"},
		{Name: "Lays Classic Small", Price: 30, Category: "Chips & Crackers", Unit: "pack", Image: "/images/lays-classic-small.jpg"},
		{Name: "Onion Rings Chips", Price: 15, Category: "Chips & Crackers", Unit: "pack", Image: "/images/onion-rings-chips.jpg"},
		{Name: "Cheese Balls", Price: 20, Category: "Chips & Crackers", Unit: "pack", Image: "/images/cheese-balls.jpg"},
		{Name: "Tiffin Time Snacks", Price: 10, Category: "Chips & Crackers", Unit: "pack", Image: "/images/tiffin-time-snacks.jpg"},
		{Name: "Milk Bikis", Price: 15, Category: "Biscuits", Unit: "pack", Image: "/images/milk-bikis.jpg"},
		{Name: "Olympic Energy Plus", Price: 15, Category: "Biscuits", Unit: "pack", Image: "/images/olympic-energy-plus.jpg"},
		{Name: "Parle-G", Price: 10, Category: "Biscuits", Unit: "pack", Image: "/images/parle-g.jpg"},
		{Name: "Nutty Biscuit", Price: 20, Category: "Biscuits", Unit: "pack", Image: "/images/nutty-biscuit.jpg"},
		{Name: "Treat Biscuit", Price: 20, Category: "Biscuits", Unit: "pack", Image: "/images/treat-biscuit.jpg"},
		{Name: "Marie Biscuit", Price: 15, Category: "Biscuits", Unit: "pack", Image: "/images/marie-biscuit.jpg"},
		{Name: "Digestive Biscuit", Price: 25, Category: "Biscuits", Unit: "pack", Image: "/images/digestive-biscuit.jpg"},
		{Name: "Tiger Biscuit", Price: 10, Category: "Biscuits", Unit: "pack", Image: "/images/tiger-biscuit.jpg"},
		{Name: "Bourbon Biscuit", Price: 20, Category: "Biscuits", Unit: "pack", Image: "/images/bourbon-biscuit.jpg"},
		{Name: "Cream Cracker", Price: 20, Category: "Biscuits", Unit: "pack", Image: "/images/cream-cracker.jpg"},
		{Name: "Polar Cup Vanilla", Price: 25, Category: "Ice Cream", Unit: "piece", Image: "/images/polar-cup-vanilla.jpg"},
		{Name: "Igloo Bar Chocolate", Price: 20, Category: "Ice Cream", Unit: "piece", Image: "/images/igloo-bar-chocolate.jpg"},
		{Name: "Za Nanu Mango", Price: 15, Category: "Ice Cream", Unit: "piece", Image: "/images/za-nanu-mango.jpg"},
		{Name: "Polar Cone Ice Cream", Price: 35, Category: "Ice Cream", Unit: "piece", Image: "/images/polar-cone-ice-cream.jpg"},
		{Name: "Igloo Kulfi", Price: 25, Category: "Ice Cream", Unit: "piece", Image: "/images/igloo-kulfi.jpg"},
		{Name: "Igloo Jumbo", Price: 40, Category: "Ice Cream", Unit: "piece", Image: "/images/igloo-jumbo.jpg"},
		{Name: "Bellissimo Choco Cup", Price: 50, Category: "Ice Cream", Unit: "piece", Image: "/images/bellissimo-choco-cup.jpg"},
		{Name: "Polar Mango Stick", Price: 20, Category: "Ice Cream", Unit: "piece", Image: "/images/polar-mango-stick.jpg"},
		{Name: "Za Nanu Cone", Price: 20, Category: "Ice Cream", Unit: "piece", Image: "/images/za-nanu-cone.jpg"},
		{Name: "Igloo Max Bar", Price: 35, Category: "Ice Cream", Unit: "piece", Image: "/images/igloo-max-bar.jpg"},
		{Name: "Mr. Noodles Chicken", Price: 25, Category: "Instant Noodles", Unit: "pack", Image: "/images/mr-noodles-chicken.jpg"},
		{Name: "Ifad Egg Noodles", Price: 20, Category: "Instant Noodles", Unit: "pack", Image: "/images/ifad-egg-noodles.jpg"},
		{Name: "Maggie Masala Noodles", Price: 30, Category: "Instant Noodles", Unit: "pack", Image: "/images/maggie-masala-noodles.jpg"},
		{Name: "Knorr Soupy Noodles", Price: 35, Category: "Instant Noodles", Unit: "pack", Image: "/images/knorr-soupy-noodles.jpg"},
		{Name: "Cocola Noodles", Price: 20, Category: "Instant Noodles", Unit: "pack", Image: "/images/cocola-noodles.jpg"},
		{Name: "Doodles Hot & Spicy", Price: 25, Category: "Instant Noodles", Unit: "pack", Image: "/images/doodles-hot-spicy.jpg"},
		{Name: "Samyang Hot Chicken", Price: 150, Category: "Instant Noodles", Unit: "pack", Image: "/images/samyang-hot-chicken.jpg"},
		{Name: "Mama Noodles", Price: 40, Category: "Instant Noodles", Unit: "pack", Image: "/images/mama-noodles.jpg"},
		{Name: "Indomie Noodles", Price: 35, Category: "Instant Noodles", Unit: "pack", Image: "/images/indomie-noodles.jpg"},
		{Name: "Top Ramen Masala", Price: 30, Category: "Instant Noodles", Unit: "pack", Image: "/images/top-ramen-masala.jpg"},
	}

	return db.Create(&catalog).Error
}

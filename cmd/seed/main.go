package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/shopyar/shopyar-backend/config"
	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/internal/app/service"
	"github.com/shopyar/shopyar-backend/internal/db"
	"github.com/shopyar/shopyar-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Seeds the database: ensures an admin account exists and imports the product
// catalog from an XLSX file when one is given.
//
// Usage:
//
//	go run cmd/seed/main.go            # admin account only
//	go run cmd/seed/main.go products.xlsx
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := ensureAdmin(); err != nil {
		log.Fatal("Failed to create admin account:", err)
	}

	if len(os.Args) < 2 {
		fmt.Println("No XLSX file given, skipping catalog import.")
		return
	}

	filePath := os.Args[1]
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Products to import: %d (skipped %d rows)\n", len(products), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	productRepo := repository.NewProductRepository(db.GetDB())
	if err := productRepo.BulkCreate(products, 500); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

// ensureAdmin creates the admin user named by ADMIN_PHONE / ADMIN_PASSWORD.
// An existing account with that phone is promoted instead.
func ensureAdmin() error {
	phone := util.NormalizePhone(os.Getenv("ADMIN_PHONE"))
	password := os.Getenv("ADMIN_PASSWORD")
	if phone == "" || password == "" {
		fmt.Println("ADMIN_PHONE or ADMIN_PASSWORD not set, skipping admin account.")
		return nil
	}

	userRepo := repository.NewUserRepository(db.GetDB())

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	existing, err := userRepo.FindByPhone(phone)
	switch {
	case err == nil:
		existing.Role = model.RoleAdmin
		existing.PasswordHash = hash
		if err := userRepo.Update(existing); err != nil {
			return err
		}
		fmt.Printf("Existing user %s promoted to admin.\n", phone)
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin := &model.User{
			Phone:        phone,
			Name:         "مدیر فروشگاه",
			Role:         model.RoleAdmin,
			PasswordHash: hash,
		}
		if err := userRepo.Create(admin); err != nil {
			return err
		}
		fmt.Printf("Admin account %s created.\n", phone)
	default:
		return err
	}
	return nil
}

// Expected columns: name, slug, description, price, discount_price, category,
// stock_quantity, image_url. First row is the header.
func readProductsFromXLSX(filePath string) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seenSlugs := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 7 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		slug := strings.TrimSpace(row[1])
		description := strings.TrimSpace(row[2])
		priceStr := util.NormalizeDigits(strings.TrimSpace(row[3]))
		discountStr := util.NormalizeDigits(strings.TrimSpace(row[4]))
		category := model.ProductCategory(strings.TrimSpace(row[5]))
		stockStr := util.NormalizeDigits(strings.TrimSpace(row[6]))

		imageURL := ""
		if len(row) > 7 {
			imageURL = strings.TrimSpace(row[7])
		}

		if name == "" || priceStr == "" {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skipped++
			continue
		}

		var discountPrice *float64
		if discountStr != "" {
			if d, err := strconv.ParseFloat(discountStr, 64); err == nil && d > 0 && d < price {
				discountPrice = &d
			}
		}

		stock := 0
		if n, err := strconv.Atoi(stockStr); err == nil && n >= 0 {
			stock = n
		}

		if slug == "" {
			slug = service.Slugify(name)
		} else {
			slug = service.Slugify(slug)
		}
		if seenSlugs[slug] {
			skipped++
			continue
		}
		seenSlugs[slug] = true

		products = append(products, model.Product{
			Name:          name,
			Slug:          slug,
			Description:   description,
			Price:         price,
			DiscountPrice: discountPrice,
			Category:      category,
			StockQuantity: stock,
			IsAvailable:   stock > 0,
			ImageURL:      imageURL,
		})
	}

	return products, skipped, nil
}

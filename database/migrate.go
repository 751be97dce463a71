package database

import (
	"fmt"

	"billing-backend/models"

	"gorm.io/gorm"
)

// AutoMigrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - Composite indexes (versions, payments, invoice_items)
// - On postgres: money columns as NUMERIC(12,2) and basic CHECK constraints
func AutoMigrate() error {
	return Migrate(DB)
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Party{},
		&models.Product{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoiceCharge{},
		&models.InvoiceVersion{},
		&models.Payment{},
		&models.DocumentSequence{},
		&models.IdempotencyKey{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_invoice_versions_invoice_id_version_no ON invoice_versions (invoice_id, version_no)`,
			`CREATE INDEX IF NOT EXISTS idx_payments_invoice_paid_at ON payments (invoice_id, paid_at)`,
			`CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice ON invoice_items (invoice_id)`,
			`CREATE INDEX IF NOT EXISTS idx_invoice_items_product ON invoice_items (product_id)`,
			`CREATE INDEX IF NOT EXISTS idx_invoices_kind_party ON invoices (kind, party_id)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		if tx.Dialector.Name() != "postgres" {
			return nil
		}

		alters := []string{
			`ALTER TABLE products       ALTER COLUMN unit_price      TYPE numeric(12,2)`,
			`ALTER TABLE invoices       ALTER COLUMN subtotal        TYPE numeric(12,2)`,
			`ALTER TABLE invoices       ALTER COLUMN tax_total       TYPE numeric(12,2)`,
			`ALTER TABLE invoices       ALTER COLUMN total           TYPE numeric(12,2)`,
			`ALTER TABLE invoices       ALTER COLUMN amount_settled  TYPE numeric(12,2)`,
			`ALTER TABLE invoices       ALTER COLUMN balance         TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items  ALTER COLUMN unit_price      TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items  ALTER COLUMN tax_amount      TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items  ALTER COLUMN amount          TYPE numeric(12,2)`,
			`ALTER TABLE payments       ALTER COLUMN amount          TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		checks := []struct{ table, name, expr string }{
			{"products", "chk_products_unit_price_nonneg", "unit_price >= 0"},
			{"payments", "chk_payments_amount_pos", "amount > 0"},
			{"invoice_items", "chk_invoice_items_amount_nonneg", "amount >= 0"},
			{"invoices", "chk_invoices_total_nonneg", "total >= 0"},
		}
		for _, ck := range checks {
			stmt := fmt.Sprintf(`DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint
		WHERE conrelid = '%[1]s'::regclass
		  AND conname  = '%[2]s'
	) THEN
		ALTER TABLE %[1]s
		ADD CONSTRAINT %[2]s
		CHECK (%[3]s);
	END IF;
END $$;`, ck.table, ck.name, ck.expr)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed on %s: %w", ck.name, err)
			}
		}
		return nil
	})
}

package database

import (
	"database/sql"

	"dinio/internal/model"
)

const packageColumns = "id, name, description, package_type, price_monthly, price_yearly"

func (db *DB) ListPackages(packageType string) ([]model.Package, error) {
	var rows *sql.Rows
	var err error
	if packageType != "" {
		rows, err = db.conn.Query(
			"SELECT "+packageColumns+" FROM packages WHERE package_type = $1 ORDER BY price_monthly", packageType)
	} else {
		rows, err = db.conn.Query(
			"SELECT " + packageColumns + " FROM packages ORDER BY price_monthly")
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packages []model.Package
	for rows.Next() {
		var p model.Package
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PackageType, &p.PriceMonthly, &p.PriceYearly); err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

func (db *DB) GetPackage(id int64) (*model.Package, error) {
	p := &model.Package{}
	err := db.conn.QueryRow(
		"SELECT "+packageColumns+" FROM packages WHERE id = $1", id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.PackageType, &p.PriceMonthly, &p.PriceYearly)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateOrderForZone persists a completed purchase: order, order item,
// zone_package link and the zone activation flag, all in one transaction.
func (db *DB) CreateOrderForZone(order *model.Order, item *model.OrderItem, zoneID int64) error {
	return db.withTx(func(tx *sql.Tx) error {
		var orderID int64
		if err := tx.QueryRow(
			`INSERT INTO orders (user_id, status, payment_provider, total_price)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			order.UserID, order.Status, order.PaymentProvider, order.TotalPrice,
		).Scan(&orderID); err != nil {
			return err
		}

		var itemID int64
		if err := tx.QueryRow(
			`INSERT INTO order_items (order_id, package_id, quantity, price_each, valid_until)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			orderID, item.PackageID, item.Quantity, item.PriceEach, item.ValidUntil,
		).Scan(&itemID); err != nil {
			return err
		}

		if _, err := tx.Exec(
			"INSERT INTO zone_package (zone_id, order_item_id) VALUES ($1, $2)",
			zoneID, itemID,
		); err != nil {
			return err
		}

		_, err := tx.Exec("UPDATE zones SET is_active = TRUE, updated_at = NOW() WHERE id = $1", zoneID)
		return err
	})
}

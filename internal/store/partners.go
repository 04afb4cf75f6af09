package store

import (
	"context"
	"database/sql"

	"erp-service/internal/errs"
	"erp-service/internal/models"
)

// Clients

// CreateClient inserts a client
func (s *Store) CreateClient(ctx context.Context, c *models.Client) error {
	return s.db.GetContext(ctx, &c.ID, `
		INSERT INTO clients (name, phone, email, address, balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		c.Name, c.Phone, c.Email, c.Address, c.Balance)
}

// GetClientByID retrieves a client by ID
func (s *Store) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	var c models.Client
	err := s.db.GetContext(ctx, &c, "SELECT * FROM clients WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("client", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListClients retrieves all clients
func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.SelectContext(ctx, &clients, "SELECT * FROM clients ORDER BY id")
	return clients, err
}

// UpdateClient updates a client
func (s *Store) UpdateClient(ctx context.Context, c *models.Client) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE clients
		SET name = $1, phone = $2, email = $3, address = $4, balance = $5
		WHERE id = $6`,
		c.Name, c.Phone, c.Email, c.Address, c.Balance, c.ID)
	if err != nil {
		return err
	}
	return checkAffected(res, "client", c.ID)
}

// DeleteClient deletes a client; sales keep a null counterparty
func (s *Store) DeleteClient(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM clients WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkAffected(res, "client", id)
}

// Suppliers

// CreateSupplier inserts a supplier
func (s *Store) CreateSupplier(ctx context.Context, sup *models.Supplier) error {
	return s.db.GetContext(ctx, &sup.ID, `
		INSERT INTO suppliers (name, phone, email, address, balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		sup.Name, sup.Phone, sup.Email, sup.Address, sup.Balance)
}

// GetSupplierByID retrieves a supplier by ID
func (s *Store) GetSupplierByID(ctx context.Context, id int64) (*models.Supplier, error) {
	var sup models.Supplier
	err := s.db.GetContext(ctx, &sup, "SELECT * FROM suppliers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("supplier", id)
	}
	if err != nil {
		return nil, err
	}
	return &sup, nil
}

// ListSuppliers retrieves all suppliers
func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var sups []models.Supplier
	err := s.db.SelectContext(ctx, &sups, "SELECT * FROM suppliers ORDER BY id")
	return sups, err
}

// UpdateSupplier updates a supplier
func (s *Store) UpdateSupplier(ctx context.Context, sup *models.Supplier) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE suppliers
		SET name = $1, phone = $2, email = $3, address = $4, balance = $5
		WHERE id = $6`,
		sup.Name, sup.Phone, sup.Email, sup.Address, sup.Balance, sup.ID)
	if err != nil {
		return err
	}
	return checkAffected(res, "supplier", sup.ID)
}

// DeleteSupplier deletes a supplier; purchases keep a null counterparty
func (s *Store) DeleteSupplier(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM suppliers WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkAffected(res, "supplier", id)
}

// Users

// UpsertUser inserts or refreshes the local account for an external subject
func (s *Store) UpsertUser(ctx context.Context, subject, email string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `
		INSERT INTO users (subject, email)
		VALUES ($1, $2)
		ON CONFLICT (subject) DO UPDATE SET email = EXCLUDED.email
		RETURNING *`,
		subject, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("user", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

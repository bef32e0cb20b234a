package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/instastay/booking-api/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type BookingRepo interface {
	// Insert persists a new booking and returns the stored record (with
	// DB-generated id, created_at, and updated_at populated).
	Insert(ctx context.Context, booking domain.Booking) (domain.Booking, error)

	// GetByID retrieves a single booking by its UUID primary key.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// ListByUser returns all bookings owned by userID, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)

	// UpdateStatus sets the stored status of a booking.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, hotel_id, user_id, check_in, check_out, guests, room_type,
		total_minor, currency, status, payment_ref, offer_code,
		guest_name, guest_email, guest_phone, created_at, updated_at`

// Insert persists a new booking row and returns the full stored record.
func (r *pgBookingRepo) Insert(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (hotel_id, user_id, check_in, check_out, guests, room_type,
			total_minor, currency, status, payment_ref, offer_code,
			guest_name, guest_email, guest_phone)
		VALUES (@hotel_id, @user_id, @check_in, @check_out, @guests, @room_type,
			@total_minor, @currency, @status, @payment_ref, @offer_code,
			@guest_name, @guest_email, @guest_phone)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"hotel_id":    b.HotelID,
		"user_id":     b.UserID,
		"check_in":    b.Dates.CheckIn,
		"check_out":   b.Dates.CheckOut,
		"guests":      b.Guests,
		"room_type":   b.RoomType,
		"total_minor": b.TotalMinor,
		"currency":    b.Currency,
		"status":      string(b.Status),
		"payment_ref": b.PaymentRef,
		"offer_code":  b.OfferCode,
		"guest_name":  b.Guest.Name,
		"guest_email": b.Guest.Email,
		"guest_phone": b.Guest.Phone,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Insert: %w", err)
	}
	return result, nil
}

// GetByID retrieves a booking by primary key.
func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByUser returns all bookings owned by userID, newest first.
func (r *pgBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = @user_id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListByUser: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByUser: rows: %w", err)
	}
	return bookings, nil
}

// UpdateStatus overwrites the status column of an existing booking.
func (r *pgBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	const q = `
		UPDATE bookings
		SET status = @status, updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)})
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", domain.ErrNotFound)
	}
	return nil
}

// scanBooking maps a single database row into a domain.Booking.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b        domain.Booking
		id       pgtype.UUID
		hotelID  pgtype.UUID
		userID   pgtype.UUID
		checkIn  pgtype.Date
		checkOut pgtype.Date
		status   string
	)

	err := s.Scan(&id, &hotelID, &userID, &checkIn, &checkOut, &b.Guests, &b.RoomType,
		&b.TotalMinor, &b.Currency, &status, &b.PaymentRef, &b.OfferCode,
		&b.Guest.Name, &b.Guest.Email, &b.Guest.Phone, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.HotelID = uuid.UUID(hotelID.Bytes)
	b.UserID = uuid.UUID(userID.Bytes)
	b.Dates = domain.DateRange{CheckIn: checkIn.Time, CheckOut: checkOut.Time}
	b.Status = domain.BookingStatus(status)

	return b, nil
}

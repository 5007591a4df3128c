// calstub is a development stand-in for the external scheduling backend.
// It serves the availability and booking endpoints the intake API calls,
// backed by Postgres or a local SQLite file.
package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"bookingintake/internal/calendar"
	"bookingintake/internal/database"
)

type StubBooking struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BookingType string    `gorm:"size:32;uniqueIndex:idx_type_slot" json:"bookingType"`
	ScheduledAt time.Time `gorm:"uniqueIndex:idx_type_slot" json:"scheduledAt"`
	Duration    int       `json:"duration"`
	Title       string    `gorm:"size:255" json:"title"`
	ClientName  string    `gorm:"size:255" json:"clientName"`
	ClientEmail string    `gorm:"size:255" json:"clientEmail"`
	Company     string    `gorm:"size:255" json:"company"`
	MeetingType string    `gorm:"size:32" json:"meetingType"`

	IdempotencyKey string `gorm:"size:64;uniqueIndex" json:"-"`

	Status    string    `gorm:"size:32" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type server struct {
	db  *gorm.DB
	log *zap.Logger
}

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	dsn := getEnv("CALSTUB_DATABASE_URL", "calstub.db")
	db, err := database.Connect(dsn, logger)
	if err != nil {
		logger.Fatal("database connect", zap.Error(err))
	}
	if err := db.AutoMigrate(&StubBooking{}); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	s := &server{db: db, log: logger}

	r := gin.New()
	r.Use(gin.Recovery())

	for path, bookingType := range map[string]string{
		"/audits":        "revenue_audit",
		"/consultations": "consultation",
	} {
		bt := bookingType
		r.GET(path+"/availability/:date", func(c *gin.Context) { s.availability(c, bt) })
		r.POST(path, func(c *gin.Context) { s.createBooking(c, bt) })
	}

	addr := getEnv("CALSTUB_LISTEN_ADDR", ":9090")
	logger.Info("calstub listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// workingHours are the slots offered on an open day, before subtracting
// existing bookings.
var workingHours = []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}

func (s *server) availability(c *gin.Context, bookingType string) {
	day, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected yyyy-MM-dd"})
		return
	}
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		c.JSON(http.StatusOK, gin.H{"availableSlots": []string{}})
		return
	}

	var booked []StubBooking
	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)
	if err := s.db.WithContext(c.Request.Context()).
		Where("booking_type = ? AND scheduled_at >= ? AND scheduled_at < ?", bookingType, dayStart, dayEnd).
		Find(&booked).Error; err != nil {
		s.log.Error("availability query", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	taken := make(map[string]bool, len(booked))
	for _, b := range booked {
		taken[b.ScheduledAt.Format("15:04")] = true
	}

	slots := make([]string, 0, len(workingHours))
	for _, h := range workingHours {
		if !taken[h] {
			slots = append(slots, h)
		}
	}

	c.JSON(http.StatusOK, gin.H{"availableSlots": slots})
}

func (s *server) createBooking(c *gin.Context, bookingType string) {
	var req calendar.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking payload"})
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid scheduledAt %q", req.ScheduledAt)})
		return
	}

	key := strings.TrimSpace(c.GetHeader("X-Idempotency-Key"))
	if key != "" {
		var existing StubBooking
		err := s.db.WithContext(c.Request.Context()).
			Where("idempotency_key = ?", key).
			First(&existing).Error
		if err == nil {
			c.JSON(http.StatusOK, existing)
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("idempotency lookup", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
			return
		}
	}

	booking := StubBooking{
		BookingType:    bookingType,
		ScheduledAt:    scheduledAt.UTC(),
		Duration:       req.Duration,
		Title:          req.Title,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		Company:        req.Company,
		MeetingType:    string(req.MeetingType),
		IdempotencyKey: key,
		Status:         "confirmed",
	}

	if err := s.db.WithContext(c.Request.Context()).Create(&booking).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "slot already booked"})
			return
		}
		s.log.Error("create booking", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// SQLite has no typed error through the pure Go driver
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(strings.ToLower(err.Error()), "unique")
}

func getEnv(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mentorhub/internal/database"
	"mentorhub/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "mentorhub.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM exception_dates")
	db.Exec("DELETE FROM availability_rules")
	db.Exec("DELETE FROM services")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	students := []domain.User{}
	studentEmails := []string{"arjun@mail.com", "priya@gmail.com", "rahul@yahoo.com"}
	for i, email := range studentEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("student123"), bcrypt.DefaultCost)
		student := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleStudent,
			Name:         fmt.Sprintf("Student %d", i+1),
			Username:     fmt.Sprintf("student%d", i+1),
		}
		db.Create(&student)
		students = append(students, student)
	}

	mentors := []domain.User{}
	mentorSeeds := []struct {
		email    string
		username string
		name     string
		bio      string
	}{
		{"ananya@mentorhub.in", "ananya-dev", "Ananya Sharma", "Backend engineer, 10 years in distributed systems"},
		{"vikram@mentorhub.in", "vikram-design", "Vikram Rao", "Product designer and career coach"},
		{"meera@mentorhub.in", "meera-data", "Meera Iyer", "Data scientist, interview prep specialist"},
	}
	for _, seed := range mentorSeeds {
		hash, _ := bcrypt.GenerateFromPassword([]byte("mentor123"), bcrypt.DefaultCost)
		mentor := domain.User{
			Email:        seed.email,
			PasswordHash: string(hash),
			Role:         domain.RoleMentor,
			Name:         seed.name,
			Username:     seed.username,
			Bio:          seed.bio,
		}
		db.Create(&mentor)
		mentors = append(mentors, mentor)
	}

	// ================== SERVICES ==================
	log.Println("Creating services...")
	services := []domain.Service{}
	for _, mentor := range mentors {
		for _, svc := range []domain.Service{
			{MentorID: mentor.ID, Name: "Intro Call", Description: "Quick chat to see if we are a fit", Price: 499, DurationMinutes: 30, Active: true},
			{MentorID: mentor.ID, Name: "Deep Dive Session", Description: "Full hour on your specific problem", Price: 1499, DurationMinutes: 60, Active: true},
			{MentorID: mentor.ID, Name: "Resume Review", Description: "Detailed written feedback", Price: 999, DurationMinutes: 45, Active: false},
		} {
			db.Create(&svc)
			services = append(services, svc)
		}
	}

	// ================== AVAILABILITY ==================
	log.Println("Creating availability templates...")
	for _, mentor := range mentors {
		for _, weekday := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
			db.Create(&domain.AvailabilityRule{
				MentorID:  mentor.ID,
				Weekday:   weekday,
				StartTime: "09:00",
				EndTime:   "12:00",
			})
			db.Create(&domain.AvailabilityRule{
				MentorID:  mentor.ID,
				Weekday:   weekday,
				StartTime: "14:00",
				EndTime:   "17:00",
			})
		}
	}

	// One mentor takes next Friday off
	nextFriday := time.Now()
	for nextFriday.Weekday() != time.Friday {
		nextFriday = nextFriday.AddDate(0, 0, 1)
	}
	db.Create(&domain.ExceptionDate{
		MentorID: mentors[0].ID,
		Date:     nextFriday.Format("2006-01-02"),
		Reason:   "Conference",
	})

	// ================== BOOKINGS ==================
	log.Println("Creating bookings...")
	if len(services) > 0 {
		svc := services[1] // first mentor's hour-long session
		start := time.Now().AddDate(0, 0, 3).Truncate(24 * time.Hour).Add(10 * time.Hour)
		db.Create(&domain.Booking{
			UserID:          students[0].ID,
			MentorID:        svc.MentorID,
			ServiceID:       svc.ID,
			ServiceName:     svc.Name,
			Price:           svc.Price,
			DurationMinutes: svc.DurationMinutes,
			SlotStart:       start,
			SlotEnd:         start.Add(time.Duration(svc.DurationMinutes) * time.Minute),
			Status:          domain.BookingConfirmed,
			PaymentID:       "pay_seed000000001",
			OrderID:         "order_seed0000001",
			MeetingLink:     "https://zoom.us/j/000000001",
		})

		start = time.Now().AddDate(0, 0, 4).Truncate(24 * time.Hour).Add(14 * time.Hour)
		db.Create(&domain.Booking{
			UserID:          students[1].ID,
			MentorID:        svc.MentorID,
			ServiceID:       svc.ID,
			ServiceName:     svc.Name,
			Price:           svc.Price,
			DurationMinutes: svc.DurationMinutes,
			SlotStart:       start,
			SlotEnd:         start.Add(time.Duration(svc.DurationMinutes) * time.Minute),
			Status:          domain.BookingPending,
			OrderID:         "order_seed0000002",
		})
	}

	log.Println("Seed completed!")
	log.Println("Test accounts:")
	log.Println("Students: arjun@mail.com ... rahul@yahoo.com / student123")
	log.Println("Mentors: ananya@mentorhub.in ... meera@mentorhub.in / mentor123")
}

// Command seed fills a fresh database with demo data: one teacher, two
// groups, a roster apiece, and two weeks of attendance history.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"asistedocente/internal/config"
	"asistedocente/internal/model"
	"asistedocente/internal/store"
)

var firstNames = []string{
	"Ana", "Carlos", "María", "José", "Lucía", "Miguel", "Sofía", "Diego",
	"Valentina", "Andrés", "Camila", "Javier", "Isabella", "Fernando", "Gabriela",
}

var lastNames = []string{
	"García", "Rodríguez", "Martínez", "López", "Hernández", "González",
	"Pérez", "Sánchez", "Ramírez", "Torres", "Flores", "Rivera",
}

func main() {
	cfg := config.Load()

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := seed(ctx, st); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("seed complete")
}

func seed(ctx context.Context, st *store.Store) error {
	n, err := st.CountTeachers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("database already has %d teacher(s), refusing to seed", n)
	}

	t := model.Teacher{
		Name:     "Laura",
		Surname:  "Otero",
		Email:    "laura.otero@example.edu",
		Password: "demo1234",
		Active:   true,
	}
	if err := st.InsertTeacher(ctx, &t); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(42))
	code := 1000

	for _, spec := range []struct{ name, subject string }{
		{"5A", "Mathematics"},
		{"6B", "Natural Sciences"},
	} {
		g := model.Group{
			Name:      spec.name,
			Subject:   spec.subject,
			TeacherID: t.ID,
			Active:    true,
		}
		if err := st.InsertGroup(ctx, &g); err != nil {
			return err
		}

		roster := make([]model.Student, 0, 10)
		for i := 0; i < 10; i++ {
			code++
			s := model.Student{
				Name:    firstNames[rng.Intn(len(firstNames))],
				Surname: lastNames[rng.Intn(len(lastNames))],
				Code:    fmt.Sprintf("EST-%d", code),
				GroupID: g.ID,
				Active:  true,
			}
			if err := st.InsertStudent(ctx, &s); err != nil {
				return err
			}
			roster = append(roster, s)
		}

		if err := seedHistory(ctx, st, g.ID, roster, rng); err != nil {
			return err
		}
		log.Printf("group %s: %d students", spec.name, len(roster))
	}
	return nil
}

// seedHistory writes records for the last 14 calendar days, skipping
// weekends. Most students are present; a few run late or miss the day.
func seedHistory(ctx context.Context, st *store.Store, groupID int64, roster []model.Student, rng *rand.Rand) error {
	today := model.Today()
	for back := 14; back >= 1; back-- {
		day := today.AddDate(0, 0, -back)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for _, s := range roster {
			r := model.AttendanceRecord{
				StudentID:  s.ID,
				GroupID:    groupID,
				Date:       day,
				Status:     pickStatus(rng),
				RecordedAt: day.Add(8 * time.Hour),
			}
			if err := st.InsertRecord(ctx, &r); err != nil {
				return err
			}
		}
	}
	return nil
}

func pickStatus(rng *rand.Rand) model.Status {
	switch n := rng.Intn(100); {
	case n < 80:
		return model.StatusPresent
	case n < 90:
		return model.StatusAbsent
	case n < 96:
		return model.StatusLate
	default:
		return model.StatusExcused
	}
}

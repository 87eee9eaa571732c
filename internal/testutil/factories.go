package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"cratepricer/internal/model"
)

// TestDataFactory provides methods for generating dynamic test data
type TestDataFactory struct {
	rand *rand.Rand
}

// NewTestDataFactory creates a new test data factory with a seeded random generator
func NewTestDataFactory(seed int64) *TestDataFactory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &TestDataFactory{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// GenerateTestToken generates a random test token
func (f *TestDataFactory) GenerateTestToken() string {
	return fmt.Sprintf("test-token-%d", f.rand.Int63())
}

// GenerateTestArtist picks a random test artist name
func (f *TestDataFactory) GenerateTestArtist() string {
	artists := []string{"Test Quartet", "The Test Pressings", "Test Orchestra", "DJ Test", "Testface Killah"}
	return artists[f.rand.Intn(len(artists))]
}

// GenerateTestTitle picks a random test album title
func (f *TestDataFactory) GenerateTestTitle() string {
	titles := []string{"First Pressing", "Sophomore Slump", "Live at the Test Hall", "Remastered", "B-Sides"}
	return titles[f.rand.Intn(len(titles))]
}

// GenerateTestGrade picks a random grade from the condition scale
func (f *TestDataFactory) GenerateTestGrade() model.Grade {
	return model.GradeScale[f.rand.Intn(len(model.GradeScale))]
}

// GenerateTestPrice generates a random whole price between 5 and 500
func (f *TestDataFactory) GenerateTestPrice() int {
	return f.rand.Intn(495) + 5
}

// GenerateTestDate generates a random date within the last year
func (f *TestDataFactory) GenerateTestDate() time.Time {
	days := f.rand.Intn(365)
	return time.Now().AddDate(0, 0, -days)
}

// GenerateTestItem builds a plausible owned item for pipeline tests
func (f *TestDataFactory) GenerateTestItem() model.Item {
	purchased := f.GenerateTestDate()
	return model.Item{
		ID:              fmt.Sprintf("test-item-%d", f.rand.Int63()),
		Artist:          f.GenerateTestArtist(),
		Title:           f.GenerateTestTitle(),
		Format:          "LP",
		Year:            1960 + f.rand.Intn(60),
		PurchasePrice:   float64(f.GenerateTestPrice()),
		PurchaseDate:    &purchased,
		ConditionVinyl:  f.GenerateTestGrade(),
		ConditionSleeve: f.GenerateTestGrade(),
		Status:          model.StatusOwned,
	}
}

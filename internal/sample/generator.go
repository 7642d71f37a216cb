package sample

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/userdesk/internal/database/repository"
)

var (
	firstNames  = []string{"Ada", "Grace", "Linus", "Ken", "Barbara", "Dennis", "Margaret", "Edsger"}
	lastNames   = []string{"Lovelace", "Hopper", "Torvalds", "Thompson", "Liskov", "Ritchie", "Hamilton", "Dijkstra"}
	departments = []string{"Engineering", "Sales", "Support", "Finance", ""}
)

// Seed inserts n sample users drawn from rng. Some users get no department so
// the placeholder rendering is exercised.
func Seed(ctx context.Context, repo *repository.UserRepo, n int, rng *rand.Rand) error {
	for i := 0; i < n; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		u := repository.User{
			ID:         uuid.NewString(),
			FirstName:  first,
			LastName:   last,
			Email:      fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), rng.Intn(10000)),
			Department: departments[rng.Intn(len(departments))],
		}
		if err := repo.Insert(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

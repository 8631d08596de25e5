package env

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// maxSeed bounds dealer seeds so they survive the dealer's 32-bit seed
// parsing.
const maxSeed = math.MaxInt32

// Point pairs an opponent with the dealer seed for one match. Two teams
// evaluated on the same point face identical deals.
type Point struct {
	ID       string
	Opponent Opponent
	Seed     int64
}

// newPoint draws a fresh seed for the opponent. The id stays unique even
// when the same coded opponent backs several points.
func newPoint(opponent Opponent, rng *rand.Rand) Point {
	return Point{
		ID:       opponent.Name() + "-" + uuid.New().String()[:8],
		Opponent: opponent,
		Seed:     rng.Int63n(maxSeed + 1),
	}
}

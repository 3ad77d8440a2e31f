package devbackend

import (
	"crypto/rand"
	"math/big"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/leaderview/internal/domain/types"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	minTotal           = 5
	totalRange         = 6
	minSeconds         = 30.0
	secondsRange       = 900.0
)

var firstNames = []string{
	"ada", "grace", "linus", "ken", "barbara", "dennis", "margaret", "alan",
	"radia", "edsger", "frances", "john", "katherine", "tim", "hedy", "guido",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func getRandomInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateRows creates n leaderboard rows ordered the way the backend ranks
// them: most tests passed first, then fastest total time.
func generateRows(n int, shareRatio float64) []types.Entry {
	rows := make([]types.Entry, n)
	for i := range rows {
		total := minTotal + getRandomInt(totalRange)
		rows[i] = types.Entry{
			Name:      firstNames[getRandomInt(len(firstNames))] + "-" + strconv.Itoa(i+1),
			Count:     getRandomInt(total + 1),
			Total:     total,
			TotalTime: types.Elapsed(minSeconds + getRandomFloat()*secondsRange),
		}
		if getRandomFloat() < shareRatio {
			rows[i].TxID = uuid.NewString()
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].TotalTime < rows[j].TotalTime
	})
	return rows
}

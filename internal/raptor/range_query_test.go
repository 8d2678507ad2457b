package raptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRangeQuerySingleCandidate(t *testing.T) {
	tt := buildDefaultFixture(t)

	journeys := RunRangeQuery(tt, tt.Station("A"), tt.Station("F"), 50, 150, 2)

	require.Len(t, journeys, 1)
	assert.Equal(t, 100, journeys[0].Departure())
	assert.Equal(t, 1500, journeys[0].Arrival())
	assert.Equal(t, []int{101, 202}, tripHints(journeys[0]))
}

func TestRunRangeQueryOrderedByDeparture(t *testing.T) {
	tt := buildDefaultFixture(t)

	journeys := RunRangeQuery(tt, tt.Station("A"), tt.Station("F"), 0, 4000, 2)

	require.Len(t, journeys, 2)
	assert.Equal(t, 100, journeys[0].Departure())
	assert.Equal(t, 1500, journeys[0].Arrival())
	assert.Equal(t, 3700, journeys[1].Departure())
	assert.Equal(t, 5100, journeys[1].Arrival())

	// The accepted list is strictly increasing in both criteria when read
	// in departure order; anything else should have been pruned.
	for i := 1; i < len(journeys); i++ {
		assert.Less(t, journeys[i-1].Departure(), journeys[i].Departure())
		assert.Less(t, journeys[i-1].Arrival(), journeys[i].Arrival())
	}
}

func TestRunRangeQueryPrunesDominatedJourneys(t *testing.T) {
	// An express A -> F leaving at 200 arrives before the connection
	// leaving at 100, so the candidate at 100 resolves to the same express
	// ride and must collapse into one result.
	specs := append(defaultTrips(), tripSpec{hint: 900, visits: []visit{
		{station: "A", platform: "0", time: 200},
		{station: "F", platform: "0", time: 1400},
	}})
	tt := buildFixture(t, specs)

	journeys := RunRangeQuery(tt, tt.Station("A"), tt.Station("F"), 0, 1000, 2)

	require.Len(t, journeys, 1)
	assert.Equal(t, 200, journeys[0].Departure())
	assert.Equal(t, 1400, journeys[0].Arrival())
	assert.Equal(t, []int{900}, tripHints(journeys[0]))
}

func TestRunRangeQueryEmptyWindow(t *testing.T) {
	tt := buildDefaultFixture(t)

	assert.Empty(t, RunRangeQuery(tt, tt.Station("A"), tt.Station("F"), 2000, 3000, 2))
}

func TestRunRangeQueryNilStations(t *testing.T) {
	tt := buildDefaultFixture(t)

	assert.Nil(t, RunRangeQuery(tt, nil, tt.Station("F"), 0, 4000, 2))
	assert.Nil(t, RunRangeQuery(tt, tt.Station("A"), nil, 0, 4000, 2))
}

func TestRunRangeQueryParallelMatchesSequential(t *testing.T) {
	tt := buildDefaultFixture(t)

	sequential := RunRangeQuery(tt, tt.Station("A"), tt.Station("F"), 0, 4000, 2)
	parallel := RunRangeQueryParallel(tt, tt.Station("A"), tt.Station("F"), 0, 4000, 2, 4)

	assert.Equal(t, sequential, parallel)
}

func TestRunRangeQueryParallelFallsBackOnSingleWorker(t *testing.T) {
	tt := buildDefaultFixture(t)

	sequential := RunRangeQuery(tt, tt.Station("A"), tt.Station("F"), 50, 150, 2)
	single := RunRangeQueryParallel(tt, tt.Station("A"), tt.Station("F"), 50, 150, 2, 1)

	assert.Equal(t, sequential, single)
}

package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gastrolog/internal/client/models"
)

func logOn(date string, ings ...string) models.LogRecord {
	return models.LogRecord{ID: date, Date: date, Ingredients: ings}
}

func TestRanking(t *testing.T) {
	logs := []models.LogRecord{
		logOn("2024-05-01", "garlic", "onion", "wheat"),
		logOn("2024-05-02", "garlic", "milk"),
		logOn("2024-05-03", "onion", "garlic", "egg"),
		logOn("2024-05-04", "apple", "beans"),
	}

	got := Ranking(logs, nil, 0)
	require.Len(t, got, DefaultTop)
	assert.Equal(t, Count{"garlic", 3}, got[0])
	assert.Equal(t, Count{"onion", 2}, got[1])
	assert.Equal(t, []Count{{"apple", 1}, {"beans", 1}, {"egg", 1}}, got[2:])
}

func TestRanking_AppliesFilter(t *testing.T) {
	safe := models.SafeList{"garlic"}
	logs := []models.LogRecord{logOn("2024-05-01", "garlic powder", "onion"), logOn("2024-05-02", "onion")}

	got := Ranking(logs, safe.Filter, 3)
	assert.Equal(t, []Count{{"onion", 2}}, got)
}

func TestRanking_Empty(t *testing.T) {
	assert.Empty(t, Ranking(nil, nil, 5))
}

func TestMonthCount(t *testing.T) {
	logs := []models.LogRecord{logOn("2024-05-01"), logOn("2024-05-31"), logOn("2024-06-01"), logOn("2023-05-10")}

	assert.Equal(t, 2, MonthCount(logs, 2024, time.May))
	assert.Equal(t, 1, MonthCount(logs, 2024, time.June))
	assert.Zero(t, MonthCount(logs, 2024, time.July))
}

func TestMonth_Grid(t *testing.T) {
	logs := []models.LogRecord{logOn("2024-02-29"), logOn("2024-02-29"), logOn("2024-02-01"), logOn("2024-03-01")}

	g := Month(logs, 2024, time.February)
	// 2024-02-01 is a Thursday
	assert.Equal(t, 4, g.Leading)
	require.Len(t, g.Days, 29)
	assert.Equal(t, Day{Day: 1, Date: "2024-02-01", Count: 1}, g.Days[0])
	assert.Equal(t, Day{Day: 29, Date: "2024-02-29", Count: 2}, g.Days[28])
	assert.Zero(t, g.Days[14].Count)
}

func TestMonthGrid_Weeks(t *testing.T) {
	g := Month(nil, 2024, time.September)
	// 2024-09-01 is a Sunday, 30 days
	weeks := g.Weeks()
	require.Len(t, weeks, 5)
	assert.Equal(t, 1, weeks[0][0].Day)
	for _, w := range weeks {
		assert.Len(t, w, 7)
	}
	assert.Equal(t, 30, weeks[4][1].Day)
	assert.Nil(t, weeks[4][2])

	g = Month(nil, 2024, time.June)
	// 2024-06-01 is a Saturday
	weeks = g.Weeks()
	assert.Nil(t, weeks[0][5])
	assert.Equal(t, 1, weeks[0][6].Day)
	assert.Len(t, weeks, 6)
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/restaurant-reservation/models"
)

func TestAutoAssignPicksSmallestAdequateTable(t *testing.T) {
	svc := newTestService(t)
	_, medium, _ := seedTables(t, svc.DB)

	table, err := svc.Assigner.AutoAssign(AssignRequest{
		Date: "2024-06-01", Time: "19:00", Duration: 120, PartySize: 4,
	})
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, medium.ID, table.ID)
}

func TestAutoAssignSkipsBookedTable(t *testing.T) {
	svc := newTestService(t)
	_, medium, large := seedTables(t, svc.DB)
	seedReservation(t, svc.DB, svc, medium.ID, "2024-06-01", "19:00", 120, models.StatusConfirmed)

	// The small table cannot hold 4; the next candidate up is the large one.
	table, err := svc.Assigner.AutoAssign(AssignRequest{
		Date: "2024-06-01", Time: "19:00", Duration: 120, PartySize: 4,
	})
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, large.ID, table.ID)
}

func TestAutoAssignRespectsCapacityWindow(t *testing.T) {
	svc := newTestService(t)
	seedTables(t, svc.DB)

	// A party of 6 only fits the large table (capacity 6, min 4).
	table, err := svc.Assigner.AutoAssign(AssignRequest{
		Date: "2024-06-01", Time: "19:00", Duration: 120, PartySize: 6,
	})
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, 6, table.Capacity)
	assert.LessOrEqual(t, table.MinCapacity, 6)

	// A party of 1 never lands on a table whose minimum is above 1.
	table, err = svc.Assigner.AutoAssign(AssignRequest{
		Date: "2024-06-01", Time: "19:00", Duration: 120, PartySize: 1,
	})
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, 2, table.Capacity)
}

func TestAutoAssignPreferredTableWins(t *testing.T) {
	svc := newTestService(t)
	_, medium, large := seedTables(t, svc.DB)

	// The medium table is the greedy pick, but the preferred large table is
	// free and adequate, so it wins.
	table, err := svc.Assigner.AutoAssign(AssignRequest{
		Date: "2024-06-01", Time: "19:00", Duration: 120, PartySize: 4,
		PreferredTableID: large.ID,
	})
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, large.ID, table.ID)

	// A booked preferred table falls back to the greedy order.
	seedReservation(t, svc.DB, svc, large.ID, "2024-06-01", "19:00", 120, models.StatusConfirmed)
	table, err = svc.Assigner.AutoAssign(AssignRequest{
		Date: "2024-06-01", Time: "19:00", Duration: 120, PartySize: 4,
		PreferredTableID: large.ID,
	})
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, medium.ID, table.ID)
}

func TestAutoAssignFloorFilter(t *testing.T) {
	svc := newTestService(t)
	_, medium, large := seedTables(t, svc.DB)

	table, err := svc.Assigner.AutoAssign(AssignRequest{
		Date: "2024-06-01", Time: "19:00", Duration: 120, PartySize: 4, Floor: "2",
	})
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, large.ID, table.ID)

	table, err = svc.Assigner.AutoAssign(AssignRequest{
		Date: "2024-06-01", Time: "19:00", Duration: 120, PartySize: 4, Floor: "1",
	})
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, medium.ID, table.ID)
}

func TestAutoAssignIgnoresInactiveTables(t *testing.T) {
	svc := newTestService(t)
	_, medium, large := seedTables(t, svc.DB)
	assert.NoError(t, svc.DB.Model(&medium).Update("is_active", false).Error)

	table, err := svc.Assigner.AutoAssign(AssignRequest{
		Date: "2024-06-01", Time: "19:00", Duration: 120, PartySize: 4,
	})
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, large.ID, table.ID)
}

func TestAutoAssignReturnsNilWhenPoolExhausted(t *testing.T) {
	svc := newTestService(t)
	_, medium, large := seedTables(t, svc.DB)
	seedReservation(t, svc.DB, svc, medium.ID, "2024-06-01", "19:00", 120, models.StatusConfirmed)
	seedReservation(t, svc.DB, svc, large.ID, "2024-06-01", "19:00", 120, models.StatusPending)

	table, err := svc.Assigner.AutoAssign(AssignRequest{
		Date: "2024-06-01", Time: "19:00", Duration: 120, PartySize: 4,
	})
	assert.NoError(t, err)
	assert.Nil(t, table)
}

func TestFindAvailableTables(t *testing.T) {
	svc := newTestService(t)
	_, medium, large := seedTables(t, svc.DB)
	seedReservation(t, svc.DB, svc, medium.ID, "2024-06-01", "19:00", 120, models.StatusConfirmed)

	tables, err := svc.Assigner.FindAvailableTables(AssignRequest{
		Date: "2024-06-01", Time: "19:00", Duration: 120, PartySize: 4,
	})
	assert.NoError(t, err)
	assert.Len(t, tables, 1)
	assert.Equal(t, large.ID, tables[0].ID)
}

package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlots_OneHourWindow(t *testing.T) {
	slots := GenerateSlots("09:00", "10:00")

	assert.Len(t, slots, 3)

	assert.Equal(t, 1, slots[0].ID)
	assert.Equal(t, "09:00 AM", slots[0].StartTime)
	assert.Equal(t, "09:20 AM", slots[0].EndTime)
	assert.Equal(t, "Morning Slot 1", slots[0].Name)
	assert.Equal(t, SessionMorning, slots[0].Session)

	assert.Equal(t, 3, slots[2].ID)
	assert.Equal(t, "09:40 AM", slots[2].StartTime)
	assert.Equal(t, "10:00 AM", slots[2].EndTime)
}

func TestGenerateSlots_CountIsFloorOfWindow(t *testing.T) {
	// 50 minutes fits two whole slots; the trailing 10 minutes is dropped.
	slots := GenerateSlots("09:00", "09:50")
	assert.Len(t, slots, 2)

	// An exact multiple wastes nothing.
	slots = GenerateSlots("08:00", "12:00")
	assert.Len(t, slots, 12)
}

func TestGenerateSlots_SequentialIDsAndContiguousTimes(t *testing.T) {
	slots := GenerateSlots("08:00", "17:00")

	for i, slot := range slots {
		assert.Equal(t, i+1, slot.ID)
		if i > 0 {
			assert.Equal(t, slots[i-1].EndTime, slot.StartTime)
		}
	}
}

func TestGenerateSlots_SessionsAndNames(t *testing.T) {
	slots := GenerateSlots("11:40", "17:40")

	// 11:40 starts in the morning, 12:00 onward is afternoon, 17:00 evening.
	assert.Equal(t, SessionMorning, slots[0].Session)
	assert.Equal(t, "Morning Slot 1", slots[0].Name)
	assert.Equal(t, SessionAfternoon, slots[1].Session)
	assert.Equal(t, "Afternoon Slot 1", slots[1].Name)

	last := slots[len(slots)-1]
	assert.Equal(t, SessionEvening, last.Session)
	assert.Equal(t, "Evening Slot 2", last.Name)
	assert.Equal(t, "05:40 PM", last.EndTime)
}

func TestGenerateSlots_TwelveHourLabels(t *testing.T) {
	slots := GenerateSlots("00:00", "01:00")
	assert.Equal(t, "12:00 AM", slots[0].StartTime)

	slots = GenerateSlots("12:00", "13:00")
	assert.Equal(t, "12:00 PM", slots[0].StartTime)
	assert.Equal(t, "12:40 PM", slots[2].StartTime)
}

func TestGenerateSlots_DegenerateWindows(t *testing.T) {
	assert.Nil(t, GenerateSlots("", ""))
	assert.Nil(t, GenerateSlots("09:00", ""))
	assert.Nil(t, GenerateSlots("17:00", "09:00"))
	assert.Nil(t, GenerateSlots("09:00", "09:00"))
	assert.Nil(t, GenerateSlots("09:00", "09:10"))
	assert.Nil(t, GenerateSlots("not-a-time", "10:00"))
	assert.Nil(t, GenerateSlots("25:00", "26:00"))
}

package facility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIcon(t *testing.T) {
	testCases := []struct {
		label string
		want  string
	}{
		{"WiFi", "wifi"},
		{"Free Wi-Fi 50 Mbps", "wifi"},
		{"AC", "snowflake"},
		{"ac", "snowflake"},
		{"Kamar Mandi Dalam", "bath"},
		{"kamar_mandi_dalam", "bath"},
		{"Water heater", "thermometer"},
		{"Kasur", "bed"},
		{"Lemari pakaian", "wardrobe"},
		{"Parkir motor", "car"},
		{"Dapur bersama", "utensils"},
		{"Laundry", "shirt"},
		{"TV kabel", "tv"},
		{"Meja belajar", "desk"},
		{"CCTV 24 jam", "shield"},
		{"Kacamata", DefaultIcon},
		{"stv", DefaultIcon},
		{"", DefaultIcon},
		{"   ", DefaultIcon},
		{"Kolam renang", DefaultIcon},
	}
	for _, tc := range testCases {
		t.Run(tc.label, func(t *testing.T) {
			assert.Equal(t, tc.want, Icon(tc.label))
		})
	}
}

func TestVocabulary(t *testing.T) {
	for _, tag := range Tags {
		assert.True(t, Valid(tag), tag)
		assert.NotEqual(t, tag, Label(tag))
	}
	assert.Equal(t, "AC", Label(AC))
	assert.Equal(t, "Kamar Mandi Dalam", Label(KamarMandiDalam))
	assert.False(t, Valid("pool"))
	assert.Equal(t, "pool", Label("pool"))
}

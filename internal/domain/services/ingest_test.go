package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ersonp/dropdex/internal/domain/entities"
	"github.com/ersonp/dropdex/internal/infrastructure/parsers"
)

const slimeOrcCSV = "怪物名稱,等級,生命值,基礎經驗,掉落物品\n" +
	"Slime,1,10,5,Gel\n" +
	"Slime,1,10,5,Herb\n" +
	"Orc,15,50,20,Axe\n"

func TestNormalize_SlimeOrc(t *testing.T) {
	result, err := Normalize(slimeOrcCSV, entities.DefaultHeaders)
	require.NoError(t, err)

	expected := []entities.Monster{
		{Name: "Slime", Level: "1", HP: "10", BaseExp: "5", Drops: []string{"Gel", "Herb"}},
		{Name: "Orc", Level: "15", HP: "50", BaseExp: "20", Drops: []string{"Axe"}},
	}
	assert.Equal(t, expected, result.Monsters)
	assert.Equal(t, 3, result.Rows)
	assert.Zero(t, result.SkippedRows)
	assert.False(t, result.Empty)
	assert.Empty(t, result.Conflicts)
}

func TestNormalize_Deterministic(t *testing.T) {
	first, err := Normalize(slimeOrcCSV, entities.DefaultHeaders)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Normalize(slimeOrcCSV, entities.DefaultHeaders)
		require.NoError(t, err)
		assert.Equal(t, first.Monsters, again.Monsters)
	}
}

func TestNormalize_Empty(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "no text", input: ""},
		{name: "header only", input: "怪物名稱,等級,生命值,基礎經驗,掉落物品"},
		{name: "header only with wrong count", input: "a,b"},
		{name: "bom and whitespace", input: "\ufeff  \r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Normalize(tt.input, entities.DefaultHeaders)
			require.NoError(t, err)
			assert.True(t, result.Empty)
			assert.NotNil(t, result.Monsters)
			assert.Empty(t, result.Monsters)
		})
	}
}

func TestNormalize_HeaderMismatch(t *testing.T) {
	input := "怪物名稱,等級,生命值,基礎經驗\nSlime,1,10,5\n"

	result, err := Normalize(input, entities.DefaultHeaders)
	require.Error(t, err)
	assert.Nil(t, result)

	var headerErr *HeaderMismatchError
	require.True(t, errors.As(err, &headerErr))
	assert.Equal(t, 5, headerErr.Expected)
	assert.Equal(t, 4, headerErr.Found)
}

func TestNormalize_SkipsMalformedRows(t *testing.T) {
	input := "怪物名稱,等級,生命值,基礎經驗,掉落物品\n" +
		"Slime,1,10,5,Gel\n" +
		"Ghost,9,30\n" +
		"Orc,15,50,20,Axe,Extra\n" +
		"\n" +
		"Orc,15,50,20,Club\n"

	result, err := Normalize(input, entities.DefaultHeaders)
	require.NoError(t, err)

	assert.Equal(t, 2, result.SkippedRows)
	require.Len(t, result.Monsters, 2)
	assert.Equal(t, "Slime", result.Monsters[0].Name)
	assert.Equal(t, []string{"Club"}, result.Monsters[1].Drops)
	for _, m := range result.Monsters {
		assert.NotEqual(t, "Ghost", m.Name)
	}
}

func TestNormalize_QuotesAreLiteralText(t *testing.T) {
	t.Run("unclosed quote only affects its own row", func(t *testing.T) {
		input := "怪物名稱,等級,生命值,基礎經驗,掉落物品\n" +
			"Slime,1,10,5,\"Gel\n" +
			"Orc,15,50,20,Axe\n" +
			"Bat,3,8,2,Wing\n"

		result, err := Normalize(input, entities.DefaultHeaders)
		require.NoError(t, err)

		assert.Zero(t, result.SkippedRows)
		require.Len(t, result.Monsters, 3)
		assert.Equal(t, []string{"\"Gel"}, result.Monsters[0].Drops)
		assert.Equal(t, "Orc", result.Monsters[1].Name)
		assert.Equal(t, []string{"Wing"}, result.Monsters[2].Drops)
	})

	t.Run("quoted comma is an extra column", func(t *testing.T) {
		input := "怪物名稱,等級,生命值,基礎經驗,掉落物品\n" +
			"Slime,1,10,5,\"Gel, blue\"\n" +
			"Orc,15,50,20,Axe\n"

		result, err := Normalize(input, entities.DefaultHeaders)
		require.NoError(t, err)

		assert.Equal(t, 1, result.SkippedRows)
		require.Len(t, result.Monsters, 1)
		assert.Equal(t, "Orc", result.Monsters[0].Name)
	})
}

func TestNormalize_TrimsAndCRLF(t *testing.T) {
	input := "\ufeff 怪物名稱 , 等級 ,生命值,基礎經驗,掉落物品 \r\n  Slime , 1 ,10,5, Gel \r\n"

	result, err := Normalize(input, entities.DefaultHeaders)
	require.NoError(t, err)
	require.Len(t, result.Monsters, 1)
	assert.Equal(t, entities.Monster{Name: "Slime", Level: "1", HP: "10", BaseExp: "5", Drops: []string{"Gel"}}, result.Monsters[0])
}

func TestNormalize_ColumnsByHeaderName(t *testing.T) {
	input := "掉落物品,怪物名稱,等級,生命值,基礎經驗\nGel,Slime,1,10,5\n"

	result, err := Normalize(input, entities.DefaultHeaders)
	require.NoError(t, err)
	require.Len(t, result.Monsters, 1)
	assert.Equal(t, "Slime", result.Monsters[0].Name)
	assert.Equal(t, []string{"Gel"}, result.Monsters[0].Drops)
}

func TestNormalize_UnknownLabelsFallBackToPosition(t *testing.T) {
	input := "name,level,hp,exp,drop\nSlime,1,10,5,Gel\n"

	result, err := Normalize(input, entities.DefaultHeaders)
	require.NoError(t, err)
	require.Len(t, result.Monsters, 1)
	assert.Equal(t, entities.Monster{Name: "Slime", Level: "1", HP: "10", BaseExp: "5", Drops: []string{"Gel"}}, result.Monsters[0])
}

func TestIngestService_LogsConflictsAndSkips(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	service := NewIngestService(entities.DefaultHeaders, zap.New(core))

	input := "怪物名稱,等級,生命值,基礎經驗,掉落物品\n" +
		"Slime,1,10,5,Gel\n" +
		"Slime,2,10,5,Herb\n" +
		"broken\n"

	result, err := service.Ingest(parsers.NewDelimitedParser(','), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, result.SkippedRows)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, ScalarConflict{Name: "Slime", Line: 3, Field: "level", Kept: "1", Ignored: "2"}, result.Conflicts[0])
	assert.Equal(t, "1", result.Monsters[0].Level)

	assert.Equal(t, 1, logs.FilterMessage("skipping malformed row").Len())
	assert.Equal(t, 1, logs.FilterMessage("conflicting stats for repeated monster").Len())
}

func TestMerge(t *testing.T) {
	t.Run("first row wins", func(t *testing.T) {
		rows := []entities.DropRow{
			{Name: "Orc", Level: "15", HP: "50", BaseExp: "20", Drop: "Axe", Line: 2},
			{Name: "Orc", Level: "16", HP: "55", BaseExp: "20", Drop: "Club", Line: 3},
		}

		monsters, conflicts := Merge(rows)
		require.Len(t, monsters, 1)
		assert.Equal(t, "15", monsters[0].Level)
		assert.Equal(t, "50", monsters[0].HP)
		assert.Equal(t, []string{"Axe", "Club"}, monsters[0].Drops)
		assert.Len(t, conflicts, 2)
	})

	t.Run("empty drops ignored", func(t *testing.T) {
		rows := []entities.DropRow{
			{Name: "Bat", Level: "3", Drop: ""},
			{Name: "Bat", Level: "3", Drop: "  "},
		}

		monsters, _ := Merge(rows)
		require.Len(t, monsters, 1)
		assert.NotNil(t, monsters[0].Drops)
		assert.Empty(t, monsters[0].Drops)
	})

	t.Run("distinct drops counted once", func(t *testing.T) {
		rows := []entities.DropRow{
			{Name: "Slime", Drop: "Gel"},
			{Name: "Slime", Drop: "Herb"},
			{Name: "Slime", Drop: "Gel"},
			{Name: "Slime", Drop: ""},
		}

		monsters, _ := Merge(rows)
		require.Len(t, monsters, 1)
		assert.Equal(t, []string{"Gel", "Herb"}, monsters[0].Drops)

		again, _ := Merge(append(rows, rows...))
		assert.Equal(t, monsters, again)
	})

	t.Run("names are exact keys", func(t *testing.T) {
		rows := []entities.DropRow{
			{Name: "slime", Drop: "Gel"},
			{Name: "Slime", Drop: "Gel"},
		}

		monsters, _ := Merge(rows)
		assert.Len(t, monsters, 2)
	})

	t.Run("no rows", func(t *testing.T) {
		monsters, conflicts := Merge(nil)
		assert.NotNil(t, monsters)
		assert.Empty(t, monsters)
		assert.Empty(t, conflicts)
	})
}

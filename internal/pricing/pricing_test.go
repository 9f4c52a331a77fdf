package pricing

import (
	"testing"

	"getunitycodes/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleGame() model.Game {
	return model.Game{
		ID:    1,
		Price: d("10"),
		Platforms: []model.PriceOption{
			{Name: "PC", Price: d("5")},
			{Name: "Android", Price: d("2.50")},
		},
		Versions: []model.PriceOption{
			{Name: "Standard", Price: d("0")},
			{Name: "Deluxe", Price: d("3")},
		},
	}
}

func TestCalculate(t *testing.T) {
	base := d("10")
	pc := &model.PriceOption{Name: "PC", Price: d("5")}
	deluxe := &model.PriceOption{Name: "Deluxe", Price: d("3")}

	require.Equal(t, "18.00", Format(Calculate(base, pc, deluxe)))
	require.Equal(t, "15.00", Format(Calculate(base, pc, nil)))
	require.Equal(t, "13.00", Format(Calculate(base, nil, deluxe)))
	require.Equal(t, "10.00", Format(Calculate(base, nil, nil)))
}

func TestCalculateIsSumOfTerms(t *testing.T) {
	values := []string{"0", "0.01", "1", "9.99", "10", "123.45"}
	for _, b := range values {
		for _, p := range values {
			for _, v := range values {
				got := Calculate(d(b), &model.PriceOption{Price: d(p)}, &model.PriceOption{Price: d(v)})
				require.True(t, d(b).Add(d(p)).Add(d(v)).Equal(got), "%s+%s+%s", b, p, v)
			}
		}
	}
}

func TestQuote(t *testing.T) {
	g := sampleGame()

	got, err := Quote(g, "PC", "Deluxe")
	require.NoError(t, err)
	require.Equal(t, "18.00", Format(got))

	got, err = Quote(g, " android ", "")
	require.NoError(t, err)
	require.Equal(t, "12.50", Format(got))

	got, err = Quote(g, "", "")
	require.NoError(t, err)
	require.Equal(t, "10.00", Format(got))

	_, err = Quote(g, "Switch", "")
	require.ErrorIs(t, err, ErrUnknownPlatform)

	_, err = Quote(g, "PC", "Ultimate")
	require.ErrorIs(t, err, ErrUnknownVersion)
}

func TestFindOption(t *testing.T) {
	g := sampleGame()
	opt, ok := FindOption(g.Versions, "deluxe")
	require.True(t, ok)
	require.Equal(t, "Deluxe", opt.Name)

	_, ok = FindOption(nil, "deluxe")
	require.False(t, ok)
}

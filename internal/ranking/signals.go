// Package ranking turns engagement counts into ordered recommendation lists.
// Every ordering here is total: ties fall through to an id comparison so the
// same data always yields the same list.
package ranking

// VideoSignals are the raw per-video engagement counts a score is built from.
type VideoSignals struct {
	BV            string
	Duration      float64
	Views         int64
	Likes         int64
	Coins         int64
	Favorites     int64
	Danmu         int64
	TotalProgress float64 // sum of watch progress over all view records
}

func (s VideoSignals) perView(n int64) float64 {
	if s.Views <= 0 {
		return 0
	}
	return float64(n) / float64(s.Views)
}

func (s VideoSignals) LikeRatio() float64     { return s.perView(s.Likes) }
func (s VideoSignals) CoinRatio() float64     { return s.perView(s.Coins) }
func (s VideoSignals) FavoriteRatio() float64 { return s.perView(s.Favorites) }

// DanmuDensity counts every danmu, including several from one viewer.
func (s VideoSignals) DanmuDensity() float64 { return s.perView(s.Danmu) }

// CompletionRatio is the mean watch progress as a fraction of the duration.
func (s VideoSignals) CompletionRatio() float64 {
	if s.Views <= 0 || s.Duration <= 0 {
		return 0
	}
	return s.TotalProgress / float64(s.Views) / s.Duration
}

// Score is the unweighted sum of the five engagement terms.
func (s VideoSignals) Score() float64 {
	return s.LikeRatio() +
		s.CoinRatio() +
		s.FavoriteRatio() +
		s.DanmuDensity() +
		s.CompletionRatio()
}

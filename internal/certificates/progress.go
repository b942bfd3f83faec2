package certificates

import "github.com/shopspring/decimal"

// recompute derives Progress, Eligible and Verified from the goal states.
// A certificate without goals is never eligible or verified.
func recompute(uc *UserCertificate) {
	total := len(uc.Goals)
	completed, verified := 0, 0
	for _, g := range uc.Goals {
		if g.Completed {
			completed++
		}
		if g.Verified {
			verified++
		}
	}
	if total == 0 {
		uc.Progress = 0
		uc.Eligible = false
		uc.Verified = false
		return
	}
	uc.Progress = int(decimal.NewFromInt(int64(completed * 100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(0).
		IntPart())
	uc.Eligible = completed == total
	uc.Verified = verified == total
}

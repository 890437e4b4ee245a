package check

import "fmt"

// Quality is the grade of a brewed product. QualityM marks a spoiled brew.
type Quality int

const (
	QualityM Quality = iota
	QualityA
	QualityB
	QualityC
	QualityD
	QualityE
	QualityF
)

// String returns the grade letter.
func (q Quality) String() string {
	if q < QualityM || q > QualityF {
		return fmt.Sprintf("Quality(%d)", int(q))
	}
	return string("MABCDEF"[q])
}

// QualityFor grades a successful brew by its quality points: up to 6 is A,
// and every further 6 points raise the grade, F from 31 on.
func QualityFor(points int) Quality {
	if points <= 6 {
		return QualityA
	}
	return min(QualityA+Quality((points-1)/6), QualityF)
}

// Raise returns q lifted by n grades, never past F. A spoiled brew stays spoiled.
func (q Quality) Raise(n int) Quality {
	if q == QualityM {
		return q
	}
	return min(q+Quality(n), QualityF)
}

// BrewQuality grades the product of a brewing check. Quality points are the
// extra points plus 2W6 plus bonus; a double one raises the grade by one, a
// triple one by two, and any failed check spoils the brew.
//
// Postcondition: the 2W6 are drawn only when the check succeeded; the rolled
// dice are returned for display.
func BrewQuality(o Outcome, bonus int, src Source) (Quality, [2]int) {
	var dice [2]int
	if !o.Success {
		return QualityM, dice
	}

	dice[0] = src.Intn(6) + 1
	dice[1] = src.Intn(6) + 1
	q := QualityFor(o.ExtraPoints + dice[0] + dice[1] + bonus)

	switch o.Tier() {
	case TierDoubleOne:
		q = q.Raise(1)
	case TierTripleOne:
		q = q.Raise(2)
	}
	return q, dice
}

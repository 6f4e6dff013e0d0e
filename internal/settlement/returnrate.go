package settlement

import (
	"fmt"
	"hash/fnv"
)

// ReturnRateBps derives the pseudo-random return rate for one product in
// one settlement, in basis points within [minBps, maxBps]. The rate is a
// pure function of (settlementID, productID): identical inputs always hash
// to the identical rate, which keeps settlements reproducible and
// auditable. No stateful random generator is ever used on this path.
func ReturnRateBps(settlementID, productID int64, minBps, maxBps int) int {
	if maxBps < minBps {
		minBps, maxBps = maxBps, minBps
	}
	span := maxBps - minBps + 1

	h := fnv.New64a()
	fmt.Fprintf(h, "settlement:%d:product:%d", settlementID, productID)
	return minBps + int(h.Sum64()%uint64(span))
}

// ReturnQty applies a return rate to a fulfilled quantity, rounding up and
// never exceeding what was actually fulfilled.
func ReturnQty(fulfilledQty, rateBps int) int {
	if fulfilledQty <= 0 || rateBps <= 0 {
		return 0
	}
	qty := (fulfilledQty*rateBps + 9999) / 10000
	if qty > fulfilledQty {
		qty = fulfilledQty
	}
	return qty
}

package mathutil

import "github.com/shopspring/decimal"

// LamportsPerSol is the number of lamports in one SOL.
const LamportsPerSol = 1_000_000_000

var lamportsPerSolDecimal = decimal.NewFromInt(LamportsPerSol)

// LamportsToSol converts an amount of lamports into SOL.
func LamportsToSol(lamports uint64) decimal.Decimal {
	return NewDecimal(lamports).Div(lamportsPerSolDecimal)
}

// SolToLamports converts an amount of SOL into lamports, truncating any
// fraction smaller than one lamport.
func SolToLamports(sol decimal.Decimal) (uint64, error) {
	return DecimalToUint64(MulDecimal(sol, lamportsPerSolDecimal))
}

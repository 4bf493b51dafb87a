package ai

import "fmt"

// swapRecordsSchema describes the swap archive for NL→SQL prompting. It must
// match cache.SwapRecordsDDL.
func swapRecordsSchema(database string) string {
	return fmt.Sprintf(`
Database: %s
Table: swap_records (ReplacingMergeTree, one row per status version; query with FINAL)

Columns:
  - id             String      -- Swap record id (uuid)
  - wallet_address String      -- Wallet that submitted the swap
  - chain_id       String      -- Internal chain id: ethereum, arbitrum, optimism, base, linea, solana, sui
  - timestamp      DateTime64  -- When the swap was recorded (UTC)
  - from_address   String      -- Sold token address or mint
  - from_symbol    String      -- Sold token symbol, e.g. "ETH"
  - from_amount    UInt256     -- Sold amount in base units of from_symbol
  - to_address     String      -- Bought token address or mint
  - to_symbol      String      -- Bought token symbol, e.g. "USDC"
  - to_amount      UInt256     -- Bought amount in base units of to_symbol
  - fee_amount     UInt256     -- Protocol fee (8 bps of from_amount) in base units of from_symbol
  - fee_formatted  String      -- Human readable fee, e.g. "0.000800 ETH"
  - tx_hash        String      -- Transaction hash, empty until known
  - status         String      -- pending | success | failed
  - updated_at     DateTime64  -- Version column

Notes:
  - Volume per chain is SUM(from_amount) grouped by chain_id and from_symbol.
  - Time filters should use timestamp, e.g. timestamp >= now() - INTERVAL 24 HOUR.
`, database)
}

package classify

import "github.com/chainlens/chainlens/pkg/layout"

// builtin is the default table. It covers the addresses that show up in most
// theft investigations; site-specific lists belong in a table file.
var builtin = []Entry{
	// Exchanges (Ethereum)
	{"0x28c6c06298d514db089934071355e5743bf21d60", layout.CategoryCEX, "Binance 14"},
	{"0x21a31ee1afc51d94c2efccaa2092ad1028285549", layout.CategoryCEX, "Binance 15"},
	{"0xdfd5293d8e347dfe59e90efd55b2956a1343963d", layout.CategoryCEX, "Binance 16"},
	{"0xf977814e90da44bfa03b6295a0616a897441acec", layout.CategoryCEX, "Binance 8"},
	{"0x71660c4005ba85c37ccec55d0c4493e66fe775d3", layout.CategoryCEX, "Coinbase 1"},
	{"0x503828976d22510aad0201ac7ec88293211d23da", layout.CategoryCEX, "Coinbase 2"},
	{"0x2910543af39aba0cd09dbb2d50200b3e800a63d2", layout.CategoryCEX, "Kraken"},
	{"0x6cc5f688a315f3dc28a7781717a9a798a59fda7b", layout.CategoryCEX, "OKX"},

	// Exchanges (Solana)
	{"5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9", layout.CategoryCEX, "Binance"},
	{"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM", layout.CategoryCEX, "Binance"},
	{"GJRs4FwHtemZ5ZE9x3FNvJ8TMwitKTh21yxdRPqn7npE", layout.CategoryCEX, "Coinbase"},
	{"FWznbcNXWQuHTawe9RxvQ2LdCENssh12dsznf4RiouN5", layout.CategoryCEX, "Kraken"},
	{"5VCwKtCXgCJ6kit5FybXjvFnPXCrKoKwFqgq5YVe1rAS", layout.CategoryCEX, "OKX"},
	{"AC5RDfQFmDS1deWZos921JfqscXdByf6BKHAbETSYnh7", layout.CategoryCEX, "Bybit"},

	// Mixers
	{"0xd90e2f925da726b50c4ed8d0fb90ad053324f31b", layout.CategoryMixer, "Tornado Cash Router"},
	{"0x910cbd523d972eb0a6f4cae4618ad62622b39dbf", layout.CategoryMixer, "Tornado Cash 10 ETH"},
	{"0xa160cdab225685da1d56aa342ad8841c3b53f291", layout.CategoryMixer, "Tornado Cash 100 ETH"},

	// Bridges
	{"0x40ec5b33f54e0e8a33a975908c5ba1c14e5bbbdf", layout.CategoryBridge, "Polygon ERC20 Bridge"},
	{"0x99c9fc46f92e8a1c0dec1b1747d010903e884be1", layout.CategoryBridge, "Optimism Gateway"},
	{"0x3ee18b2214aff97000d974cf647e7c347e8fa585", layout.CategoryBridge, "Wormhole Token Bridge"},
	{"0x8315177ab297ba92a06054ce80a67ed4dbd7ed3a", layout.CategoryBridge, "Arbitrum Bridge"},

	// DeFi
	{"0x7a250d5630b4cf539739df2c5dacb4c659f2488d", layout.CategoryDeFi, "Uniswap V2 Router"},
	{"0x3fc91a3afd70395cd496c647d5a6cc9d4b2b7fad", layout.CategoryDeFi, "Uniswap Universal Router"},
	{"0x1111111254eeb25477b68fb85ed929f73a960582", layout.CategoryDeFi, "1inch v5 Router"},
	{"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4", layout.CategoryDeFi, "Jupiter Aggregator"},
}

// Package chain wraps the ProphecyToken contract on Base via go-ethereum.
package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// prophecyTokenABI is the subset of the deployed contract's ABI this
// service consumes.
const prophecyTokenABI = `[
  {"type":"function","name":"mintProphecy","stateMutability":"payable",
   "inputs":[{"name":"tokenURI","type":"string"},{"name":"score","type":"uint256"},{"name":"occupation","type":"string"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"mintPrice","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"setMintPrice","stateMutability":"nonpayable",
   "inputs":[{"name":"_mintPrice","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"mintProphecyFor","stateMutability":"nonpayable",
   "inputs":[{"name":"to","type":"address"},{"name":"tokenURI","type":"string"},{"name":"score","type":"uint256"},{"name":"occupation","type":"string"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"updateProphecy","stateMutability":"nonpayable",
   "inputs":[{"name":"tokenId","type":"uint256"},{"name":"newTokenURI","type":"string"},{"name":"newScore","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getProphecy","stateMutability":"view",
   "inputs":[{"name":"tokenId","type":"uint256"}],
   "outputs":[{"name":"","type":"tuple","components":[
     {"name":"resilienceScore","type":"uint256"},
     {"name":"occupation","type":"string"},
     {"name":"timestamp","type":"uint256"},
     {"name":"updateCount","type":"uint256"},
     {"name":"recipient","type":"address"}]}]},
  {"type":"function","name":"getCurrentTokenId","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"owner","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"event","name":"ProphecyMinted","inputs":[
    {"name":"to","type":"address","indexed":true},
    {"name":"tokenId","type":"uint256","indexed":true},
    {"name":"resilienceScore","type":"uint256","indexed":false},
    {"name":"occupation","type":"string","indexed":false},
    {"name":"tokenURI","type":"string","indexed":false}]},
  {"type":"event","name":"ProphecyUpdated","inputs":[
    {"name":"tokenId","type":"uint256","indexed":true},
    {"name":"newScore","type":"uint256","indexed":false},
    {"name":"newTokenURI","type":"string","indexed":false}]}
]`

func mustParseABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(prophecyTokenABI))
	if err != nil {
		panic("chain: invalid ProphecyToken ABI: " + err.Error())
	}
	return parsed
}

var contractABI = mustParseABI()

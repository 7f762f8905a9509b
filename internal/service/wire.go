package service

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"energy-dex/internal/core/domain"
)

// dropsPerUnit converts the ledger's integer minor units to whole quote
// units.
const dropsPerUnit = 1_000_000

// amount is one side of an exchange: either a native-asset string in minor
// units or an issued-asset document {currency, issuer, value}.
type amount struct {
	Asset string
	Value float64
}

func decodeAmount(raw json.RawMessage, nativeAsset string) (amount, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		drops, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return amount{}, fmt.Errorf("parsing native amount %q: %w", s, err)
		}
		return amount{Asset: nativeAsset, Value: float64(drops) / dropsPerUnit}, nil
	}

	var doc struct {
		Currency string `json:"currency"`
		Issuer   string `json:"issuer"`
		Value    string `json:"value"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return amount{}, fmt.Errorf("decoding amount: %w", err)
	}
	v, err := strconv.ParseFloat(doc.Value, 64)
	if err != nil {
		return amount{}, fmt.Errorf("parsing amount value %q: %w", doc.Value, err)
	}
	return amount{Asset: doc.Currency, Value: v}, nil
}

// decodeBalances merges the native account balance with trust-line rows.
// Trust-line balances use a sign convention relative to the issuer; only the
// magnitude is ledger truth for display and validation.
func decodeBalances(account string, accountInfo, accountLines json.RawMessage, nativeAsset string) ([]domain.Balance, error) {
	var info struct {
		AccountData struct {
			Balance string `json:"Balance"`
		} `json:"account_data"`
	}
	if err := json.Unmarshal(accountInfo, &info); err != nil {
		return nil, fmt.Errorf("decoding account info: %w", err)
	}
	drops, err := strconv.ParseInt(info.AccountData.Balance, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing native balance %q: %w", info.AccountData.Balance, err)
	}

	balances := []domain.Balance{{
		Account:  account,
		Asset:    nativeAsset,
		Quantity: math.Abs(float64(drops) / dropsPerUnit),
	}}

	var lines struct {
		Lines []struct {
			Currency string `json:"currency"`
			Balance  string `json:"balance"`
		} `json:"lines"`
	}
	if err := json.Unmarshal(accountLines, &lines); err != nil {
		return nil, fmt.Errorf("decoding trust lines: %w", err)
	}
	for _, l := range lines.Lines {
		v, err := strconv.ParseFloat(l.Balance, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing trust-line balance %q: %w", l.Balance, err)
		}
		balances = append(balances, domain.Balance{
			Account:  account,
			Asset:    l.Currency,
			Quantity: math.Abs(v),
		})
	}
	return balances, nil
}

// wireOffer is one open offer as reported by account_offers or book_offers.
type wireOffer struct {
	Account   string          `json:"account"`
	Seq       uint32          `json:"seq"`
	TakerGets json.RawMessage `json:"taker_gets"`
	TakerPays json.RawMessage `json:"taker_pays"`
	NFTokenID string          `json:"nft_id,omitempty"`
	OfferIdx  string          `json:"offer_index,omitempty"`
	CreatedAt int64           `json:"created_at,omitempty"`
}

func decodeOffers(raw json.RawMessage, owner, baseAsset, nativeAsset string) ([]domain.Order, error) {
	var body struct {
		Offers []wireOffer `json:"offers"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decoding offers: %w", err)
	}

	orders := make([]domain.Order, 0, len(body.Offers))
	for _, o := range body.Offers {
		gets, err := decodeAmount(o.TakerGets, nativeAsset)
		if err != nil {
			return nil, err
		}
		pays, err := decodeAmount(o.TakerPays, nativeAsset)
		if err != nil {
			return nil, err
		}

		account := o.Account
		if account == "" {
			account = owner
		}
		side := domain.SideBuy
		if gets.Asset == baseAsset {
			side = domain.SideSell
		}

		order := domain.Order{
			ID:                strconv.FormatUint(uint64(o.Seq), 10),
			Account:           account,
			Side:              side,
			OfferedAsset:      gets.Asset,
			OfferedQuantity:   gets.Value,
			RequestedAsset:    pays.Asset,
			RequestedQuantity: pays.Value,
			AssetID:           o.NFTokenID,
			OfferIndex:        o.OfferIdx,
		}
		if o.CreatedAt > 0 {
			order.CreatedAt = time.Unix(o.CreatedAt, 0).UTC()
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// wireNFT is one tokenized asset as reported by account_nfts.
type wireNFT struct {
	ID     string `json:"nft_id"`
	URI    string `json:"uri"`
	Flags  uint32 `json:"flags"`
	Issuer string `json:"issuer"`
	Serial uint32 `json:"serial"`
}

// transferableFlag marks an asset mintable for resale.
const transferableFlag = 0x0008

func decodeAssets(raw json.RawMessage, owner string, now func() time.Time) ([]domain.TokenizedAsset, error) {
	var body struct {
		AccountNFTs []wireNFT `json:"account_nfts"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decoding account assets: %w", err)
	}

	assets := make([]domain.TokenizedAsset, 0, len(body.AccountNFTs))
	for _, n := range body.AccountNFTs {
		assets = append(assets, domain.TokenizedAsset{
			ID:           n.ID,
			Owner:        owner,
			Transferable: n.Flags&transferableFlag != 0,
			Accepted:     true,
			Metadata:     decodeMetadata(n.URI, now),
		})
	}
	return assets, nil
}

// decodeMetadata parses the hex-encoded attachment. Unparsable attachments
// yield a synthesized placeholder instead of dropping the asset: every owned
// asset must surface in the snapshot.
func decodeMetadata(uriHex string, now func() time.Time) domain.AssetMetadata {
	placeholder := domain.AssetMetadata{
		SourceKind: domain.SourceUnknown,
		ProducedAt: now().UTC(),
	}

	raw, err := hex.DecodeString(uriHex)
	if err != nil {
		return placeholder
	}
	var md domain.AssetMetadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return placeholder
	}
	if md.SourceKind == "" {
		md.SourceKind = domain.SourceUnknown
	}
	return md
}

// encodeMetadata serializes metadata into the attachment wire form.
func encodeMetadata(md domain.AssetMetadata) string {
	b, _ := json.Marshal(md)
	return hex.EncodeToString(b)
}

// wireSellOffer is one outstanding transfer offer from nft_sell_offers.
type wireSellOffer struct {
	OfferIndex  string `json:"nft_offer_index"`
	Amount      string `json:"amount"`
	Owner       string `json:"owner"`
	Destination string `json:"destination"`
	Flags       uint32 `json:"flags"`
}

func decodeSellOffers(raw json.RawMessage, assetID string) ([]domain.TransferOffer, error) {
	var body struct {
		Offers []wireSellOffer `json:"offers"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decoding transfer offers: %w", err)
	}

	offers := make([]domain.TransferOffer, 0, len(body.Offers))
	for _, o := range body.Offers {
		price, err := strconv.ParseInt(o.Amount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing offer amount %q: %w", o.Amount, err)
		}
		offers = append(offers, domain.TransferOffer{
			AssetID:      assetID,
			Direction:    domain.SideSell,
			Counterparty: o.Destination,
			PriceDrops:   price,
			OfferIndex:   o.OfferIndex,
		})
	}
	return offers, nil
}

// decodeSettlements maps validated account transactions into settlement
// records.
func decodeSettlements(raw json.RawMessage, nativeAsset string) ([]domain.SettlementRecord, error) {
	var body struct {
		Transactions []struct {
			Validated bool `json:"validated"`
			Tx        struct {
				Hash            string          `json:"hash"`
				TransactionType string          `json:"TransactionType"`
				Account         string          `json:"Account"`
				Destination     string          `json:"Destination"`
				Amount          json.RawMessage `json:"Amount"`
				LedgerIndex     uint32          `json:"ledger_index"`
				Date            int64           `json:"date"`
			} `json:"tx"`
		} `json:"transactions"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decoding account transactions: %w", err)
	}

	records := make([]domain.SettlementRecord, 0, len(body.Transactions))
	for _, t := range body.Transactions {
		if !t.Validated {
			continue
		}
		rec := domain.SettlementRecord{
			Hash:         t.Tx.Hash,
			Kind:         t.Tx.TransactionType,
			Account:      t.Tx.Account,
			Counterparty: t.Tx.Destination,
			LedgerIndex:  t.Tx.LedgerIndex,
			LedgerTime:   time.Unix(t.Tx.Date, 0).UTC(),
		}
		if len(t.Tx.Amount) > 0 {
			if amt, err := decodeAmount(t.Tx.Amount, nativeAsset); err == nil {
				rec.Asset = amt.Asset
				rec.Amount = amt.Value
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Package ofx parses OFX/QFX bank statements into transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/syllogic-ai/personal-finance-app/internal/model"
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns transactions. Amounts keep
// their sign: negative is an expense, positive is income.
func (p *Parser) ParseFile(_ context.Context, reader io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			accountID := string(stmt.BankAcctFrom.AcctID)
			currency := stmt.CurDef.String()
			for _, ofxTx := range stmt.BankTranList.Transactions {
				transactions = append(transactions, p.convertTransaction(ofxTx, accountID, currency))
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			accountID := string(stmt.CCAcctFrom.AcctID)
			currency := stmt.CurDef.String()
			for _, ofxTx := range stmt.BankTranList.Transactions {
				transactions = append(transactions, p.convertTransaction(ofxTx, accountID, currency))
			}
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// convertTransaction converts an OFX transaction to our model.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID, currency string) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()

	tx := model.Transaction{
		ID:          string(ofxTx.FiTID),
		BookedAt:    ofxTx.DtPosted.Time,
		Description: buildDescription(ofxTx),
		Merchant:    payeeName(ofxTx),
		Amount:      amount,
		Currency:    currency,
		AccountID:   accountID,
	}

	tx.Hash = tx.GenerateHash()
	return tx
}

// buildDescription combines the NAME and MEMO fields. Dutch banks put the
// SEPA creditor id and mandate metadata in the memo, which the detection
// engine needs, so the memo is appended rather than discarded.
func buildDescription(tx ofxgo.Transaction) string {
	name := strings.TrimSpace(string(tx.Name))
	memo := strings.TrimSpace(string(tx.Memo))

	switch {
	case name == "":
		return memo
	case memo == "" || memo == name:
		return name
	default:
		return name + " " + memo
	}
}

// payeeName returns the PAYEE name when the statement carries one.
func payeeName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}
	return ""
}

// GetAccounts extracts unique account IDs from the OFX file.
func (p *Parser) GetAccounts(_ context.Context, reader io.Reader) ([]string, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	accountMap := make(map[string]bool)

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			if stmt.BankAcctFrom.AcctID != "" {
				accountMap[string(stmt.BankAcctFrom.AcctID)] = true
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			if stmt.CCAcctFrom.AcctID != "" {
				accountMap[string(stmt.CCAcctFrom.AcctID)] = true
			}
		}
	}

	var accounts []string
	for acct := range accountMap {
		accounts = append(accounts, acct)
	}

	return accounts, nil
}

package dataload

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aselbek/recommender/internal/domain"
)

const dateFormat = "2006-01-02"

// statusMap translates raw client statuses into the normalized vocabulary
var statusMap = map[string]domain.Status{
	"Зарплатный клиент":  domain.StatusPayroll,
	"Премиальный клиент": domain.StatusPremium,
	"Студент":            domain.StatusStudent,
	"Стандартный клиент": domain.StatusStandard,
}

// Tables is the fully loaded, normalized input set for one run
type Tables struct {
	Clients      []domain.Client
	Transactions []domain.Transaction
	Transfers    []domain.Transfer
}

// LoadAll loads clients, transactions and transfers from baseDir.
// A missing client table is fatal; missing transaction or transfer files
// degrade to empty tables and the run continues with fewer signals.
func LoadAll(baseDir string, log zerolog.Logger) (*Tables, error) {
	clients, err := LoadClients(filepath.Join(baseDir, "clients.csv"))
	if err != nil {
		return nil, fmt.Errorf("loading clients: %w", err)
	}
	log.Info().Int("count", len(clients)).Msg("Clients loaded")

	txs, err := LoadTransactions(baseDir)
	if err != nil {
		log.Warn().Err(err).Msg("Transaction files unavailable, continuing with empty table")
		txs = nil
	}
	log.Info().Int("count", len(txs)).Msg("Transactions loaded")

	transfers, err := LoadTransfers(baseDir)
	if err != nil {
		log.Warn().Err(err).Msg("Transfer files unavailable, continuing with empty table")
		transfers = nil
	}
	log.Info().Int("count", len(transfers)).Msg("Transfers loaded")

	return &Tables{Clients: clients, Transactions: txs, Transfers: transfers}, nil
}

// LoadClients reads clients.csv and normalizes statuses
func LoadClients(path string) ([]domain.Client, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	var clients []domain.Client
	for i, rec := range records {
		age, _ := strconv.Atoi(field(rec, header, "age"))
		balance, err := strconv.ParseFloat(field(rec, header, "avg_monthly_balance_KZT"), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad balance: %w", i+2, err)
		}

		code := field(rec, header, "client_code")
		if code == "" {
			return nil, fmt.Errorf("row %d: empty client_code", i+2)
		}

		status, ok := statusMap[field(rec, header, "status")]
		if !ok {
			status = domain.StatusStandard
		}

		clients = append(clients, domain.Client{
			Code:              code,
			Name:              field(rec, header, "name"),
			Status:            status,
			Age:               age,
			City:              field(rec, header, "city"),
			AvgMonthlyBalance: balance,
		})
	}

	if len(clients) == 0 {
		return nil, fmt.Errorf("client table %s is empty", path)
	}
	return clients, nil
}

// LoadTransactions reads every *_transactions_3m.csv under baseDir.
// The client code is taken from the file name, and categories are
// normalized to the canonical vocabulary.
func LoadTransactions(baseDir string) ([]domain.Transaction, error) {
	files, err := filepath.Glob(filepath.Join(baseDir, "*_transactions_3m.csv"))
	if err != nil || len(files) == 0 {
		return nil, fmt.Errorf("no transaction files in %s", baseDir)
	}

	var txs []domain.Transaction
	for _, file := range files {
		code := clientCodeFromFilename(file)
		records, header, err := readCSV(file)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			date, _ := time.Parse(dateFormat, field(rec, header, "date"))
			amount, _ := strconv.ParseFloat(field(rec, header, "amount"), 64)
			txs = append(txs, domain.Transaction{
				ClientCode: code,
				Date:       date,
				Category:   NormalizeCategory(field(rec, header, "category")),
				Amount:     amount,
				Currency:   field(rec, header, "currency"),
			})
		}
	}
	return txs, nil
}

// LoadTransfers reads every *_transfers_3m.csv under baseDir
func LoadTransfers(baseDir string) ([]domain.Transfer, error) {
	files, err := filepath.Glob(filepath.Join(baseDir, "*_transfers_3m.csv"))
	if err != nil || len(files) == 0 {
		return nil, fmt.Errorf("no transfer files in %s", baseDir)
	}

	var transfers []domain.Transfer
	for _, file := range files {
		code := clientCodeFromFilename(file)
		records, header, err := readCSV(file)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			date, _ := time.Parse(dateFormat, field(rec, header, "date"))
			amount, _ := strconv.ParseFloat(field(rec, header, "amount"), 64)
			transfers = append(transfers, domain.Transfer{
				ClientCode: code,
				Date:       date,
				Type:       field(rec, header, "type"),
				Direction:  field(rec, header, "direction"),
				Amount:     amount,
				Currency:   field(rec, header, "currency"),
			})
		}
	}
	return transfers, nil
}

// clientCodeFromFilename extracts the code from names like
// client_42_transactions_3m.csv.
func clientCodeFromFilename(path string) string {
	parts := strings.Split(filepath.Base(path), "_")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func readCSV(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s has no header row", path)
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(name)] = i
	}
	return records[1:], header, nil
}

func field(rec []string, header map[string]int, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

package dataload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aselbek/recommender/internal/domain"
)

const clientsCSV = `client_code,name,status,age,city,avg_monthly_balance_KZT
1,Айгерим Сапарова,Зарплатный клиент,29,Алматы,240000
2,Данияр Ахметов,Премиальный клиент,41,Астана,5200000
3,Жанна Ким,Студент,20,Алматы,35000
4,Руслан Омаров,Неизвестный статус,33,Шымкент,180000
`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	return dir
}

func TestLoadClientsNormalizesStatuses(t *testing.T) {
	dir := writeInput(t, "clients.csv", clientsCSV)

	clients, err := LoadClients(filepath.Join(dir, "clients.csv"))
	require.NoError(t, err)
	require.Len(t, clients, 4)

	want := []domain.Status{
		domain.StatusPayroll,
		domain.StatusPremium,
		domain.StatusStudent,
		domain.StatusStandard,
	}
	for i, c := range clients {
		assert.Equal(t, want[i], c.Status, "client %s", c.Code)
	}
	assert.Equal(t, "Айгерим Сапарова", clients[0].Name)
	assert.Equal(t, 5200000.0, clients[1].AvgMonthlyBalance)
	assert.Equal(t, 20, clients[2].Age)
}

func TestLoadClientsEmptyTableFails(t *testing.T) {
	dir := writeInput(t, "clients.csv", "client_code,name,status,age,city,avg_monthly_balance_KZT\n")

	_, err := LoadClients(filepath.Join(dir, "clients.csv"))
	assert.Error(t, err)
}

func TestLoadClientsMissingCodeFails(t *testing.T) {
	dir := writeInput(t, "clients.csv", `client_code,name,status,age,city,avg_monthly_balance_KZT
,Без кода,Студент,20,Алматы,1000
`)
	_, err := LoadClients(filepath.Join(dir, "clients.csv"))
	assert.Error(t, err)
}

func TestLoadTransactionsTakesCodeFromFilename(t *testing.T) {
	dir := writeInput(t, "client_42_transactions_3m.csv", `date,category,amount,currency
2025-06-01,Такси,1500,KZT
2025-06-03,Рестораны,8200,KZT
`)

	txs, err := LoadTransactions(dir)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "42", txs[0].ClientCode)
	assert.Equal(t, "Такси", txs[0].Category)
	assert.Equal(t, 1500.0, txs[0].Amount)
	assert.Equal(t, "Кафе и рестораны", txs[1].Category)
}

func TestLoadTransfers(t *testing.T) {
	dir := writeInput(t, "client_7_transfers_3m.csv", `date,type,direction,amount,currency
2025-06-02,deposit_in,in,120000,KZT
2025-06-08,fx_buy,out,300,USD
`)

	transfers, err := LoadTransfers(dir)
	require.NoError(t, err)
	require.Len(t, transfers, 2)

	assert.Equal(t, "7", transfers[0].ClientCode)
	assert.Equal(t, domain.TransferDepositIn, transfers[0].Type)
	assert.Equal(t, "USD", transfers[1].Currency)
}

func TestLoadAllToleratesMissingActivityFiles(t *testing.T) {
	dir := writeInput(t, "clients.csv", clientsCSV)

	tables, err := LoadAll(dir, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, tables.Clients, 4)
	assert.Empty(t, tables.Transactions)
	assert.Empty(t, tables.Transfers)
}

func TestLoadAllMissingClientsFatal(t *testing.T) {
	_, err := LoadAll(t.TempDir(), zerolog.Nop())
	assert.Error(t, err)
}

func TestClientCodeFromFilename(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"client_42_transactions_3m.csv", "42"},
		{"/data/run/client_7_transfers_3m.csv", "7"},
		{"noseparator.csv", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, clientCodeFromFilename(tc.path), tc.path)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ikkim/hairable-backend/config"
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/app/repository"
	"github.com/ikkim/hairable-backend/internal/app/service"
	"github.com/ikkim/hairable-backend/internal/db"
	"github.com/ikkim/hairable-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

const usage = `Usage:
  go run ./cmd/seed roster -store <store_id> <xlsx_file_path>
  go run ./cmd/seed token -user <user_id> -role <role> [-email addr] [-ttl 24h]`

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	switch os.Args[1] {
	case "roster":
		importRoster(cfg, os.Args[2:])
	case "token":
		issueToken(cfg, os.Args[2:])
	default:
		log.Fatal(usage)
	}
}

// rosterRow 근무표 시트 한 줄: 직원ID | 날짜 | 시작 | 종료 | 상태(working/off)
type rosterRow struct {
	line  int
	input service.WorkingHoursInput
}

func importRoster(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("roster", flag.ExitOnError)
	storeID := fs.Uint("store", 0, "store id the roster belongs to")
	_ = fs.Parse(args)
	if *storeID == 0 || fs.NArg() != 1 {
		log.Fatal(usage)
	}
	filePath := fs.Arg(0)

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readRosterFromXLSX(filePath, uint(*storeID))
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Total roster rows to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	database := db.GetDB()
	calendarService := service.NewCalendarService(
		database,
		repository.NewCalendarRepository(database),
		repository.NewStoreRepository(database),
		service.NewStoreAuthorizer(database),
		service.NewMemoryLocker(),
	)

	// 운영 도구이므로 관리자 권한으로 실행
	operator := service.Principal{Role: model.RoleAdmin}
	ctx := context.Background()

	imported, failed := 0, 0
	for _, row := range rows {
		if _, err := calendarService.UpsertWorkingHours(ctx, operator, row.input); err != nil {
			failed++
			fmt.Printf("  line %d: %v\n", row.line, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed!")
	fmt.Printf("  Imported: %d\n", imported)
	fmt.Printf("  Failed: %d\n", failed)
}

func readRosterFromXLSX(filePath string, storeID uint) ([]rosterRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var roster []rosterRow
	skipped := 0
	// 첫 행은 헤더
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) < 5 {
			skipped++
			continue
		}

		staffID, err := strconv.ParseUint(strings.TrimSpace(row[0]), 10, 32)
		if err != nil {
			fmt.Printf("  line %d: invalid staff id %q\n", line, row[0])
			skipped++
			continue
		}

		roster = append(roster, rosterRow{
			line: line,
			input: service.WorkingHoursInput{
				StoreID:   storeID,
				StaffID:   uint(staffID),
				Date:      strings.TrimSpace(row[1]),
				StartTime: strings.TrimSpace(row[2]),
				EndTime:   strings.TrimSpace(row[3]),
				Status:    model.WorkStatus(strings.ToLower(strings.TrimSpace(row[4]))),
			},
		})
	}

	fmt.Printf("Summary: %d rows, %d valid, %d skipped\n", len(rows)-1, len(roster), skipped)
	return roster, nil
}

// issueToken 로컬 개발용 액세스 토큰 발급 (운영 토큰은 인증 서비스가 발급)
func issueToken(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	userID := fs.Uint("user", 0, "user id")
	role := fs.String("role", string(model.RoleOwner), "account role")
	email := fs.String("email", "", "email claim")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	_ = fs.Parse(args)

	if *userID == 0 || !model.UserRole(*role).IsValid() {
		log.Fatal(usage)
	}

	token, err := util.GenerateAccessToken(uint(*userID), *email, *role, cfg.JWT.Secret, *ttl)
	if err != nil {
		log.Fatal("Failed to sign token:", err)
	}
	fmt.Println(token)
}

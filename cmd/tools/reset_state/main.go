package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"approvalhub/internal/approval"
	"approvalhub/internal/config"
	"approvalhub/internal/infra"
	"approvalhub/internal/logger"
	"approvalhub/internal/records"
	"approvalhub/internal/schema"
)

func main() {
	env := flag.String("env", "dev", "配置环境 dev/prod/test")
	table := flag.String("table", "", "单据表名或单据类型，如 purchase.order")
	id := flag.Int64("id", 0, "单据ID")
	state := flag.String("state", approval.StateDraft, "审批状态 draft/approval/stop")
	result := flag.String("result", approval.ResultWaiting, "审批结果 load/agree/refuse/redirect")
	dryRun := flag.Bool("dry-run", false, "仅打印当前状态，不写入")
	flag.Parse()

	if *table == "" || *id <= 0 {
		flag.Usage()
		log.Fatal("必须指定 -table 和 -id")
	}

	cfg, err := config.Load(*env, "")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()

	db, err := infra.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer infra.CloseDatabase()

	registry, err := schema.LoadRegistry(cfg.Approval.RegistryPath)
	if err != nil {
		log.Fatalf("加载单据类型注册表失败: %v", err)
	}

	ctx := context.Background()
	if rt, ok := registry.LookupTable(schema.TableNameOf(*table)); ok {
		current, err := records.NewStore(db, registry).LoadState(ctx, rt.Model, *id)
		if err != nil {
			log.Fatalf("读取单据失败: %v", err)
		}
		if current == nil {
			log.Fatalf("单据不存在: %s id=%d", rt.Model, *id)
		}
		fmt.Printf("当前状态: approval_state=%s approval_result=%s doc_state=%s\n",
			current.ApprovalState, current.ApprovalResult, current.DocState)
	}

	if *dryRun {
		fmt.Printf("[dry-run] 计划重置为 approval_state=%s approval_result=%s\n", *state, *result)
		return
	}

	err = approval.NewResetter(db, registry).ForceReset(ctx, approval.ResetRequest{
		Table:    *table,
		RecordID: *id,
		State:    *state,
		Result:   *result,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("重置完成")
}

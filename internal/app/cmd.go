package app

// Command はfuelogバイナリの起動モードを表す。
// 単一バイナリをAPIサーバー・セッションクリーンアップワーカー・
// マイグレーション実行の各役割で使い分ける。
type Command string

const (
	// CommandServe はAPIサーバーモード。引数なしの場合のデフォルト。
	CommandServe Command = "serve"
	// CommandWorker はセッションクリーンアップワーカーモード。
	CommandWorker Command = "worker"
	// CommandMigrate は未適用マイグレーションの一括適用。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は/healthへの疎通確認のみを行う軽量モード。
	// シェルを持たないdistrolessコンテナのHEALTHCHECKから呼ばれる。
	CommandHealthcheck Command = "healthcheck"
)

// knownCommands はサブコマンド文字列からCommandへの対応表。
var knownCommands = map[string]Command{
	"serve":       CommandServe,
	"worker":      CommandWorker,
	"migrate":     CommandMigrate,
	"healthcheck": CommandHealthcheck,
}

// ParseCommand は先頭のコマンドライン引数をサブコマンドとして解釈する。
// 引数が空、または未知のコマンドの場合はCommandServeにフォールバックする。
// 2番目以降の引数は無視する。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}
	if cmd, ok := knownCommands[args[0]]; ok {
		return cmd
	}
	return CommandServe
}

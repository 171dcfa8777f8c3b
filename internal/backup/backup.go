package backup

import (
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pusher 把数据目录的变更提交到 git 仓库并尽力推送到远端
// 作为纯粹的备份通道：任何失败只记录日志，绝不影响内存状态与请求结果
type Pusher struct {
	dir string
}

// New 构造 Pusher，dir 为包含数据文件的目录
func New(dir string) *Pusher {
	return &Pusher{dir: dir}
}

// PushAsync 在后台发起一次备份提交，调用后立即返回
func (p *Pusher) PushAsync() {
	go func() {
		if err := p.push(); err != nil {
			log.Printf("backup push failed: %v", err)
		}
	}()
}

func (p *Pusher) push() error {
	// 每次尝试带一个短标识，便于在日志里关联同一次备份的多条输出
	attempt := uuid.NewString()[:8]

	if !p.isGitRepo() {
		return fmt.Errorf("attempt %s: %s is not inside a git repository", attempt, p.dir)
	}

	changed, err := p.hasChanges()
	if err != nil {
		return fmt.Errorf("attempt %s: %w", attempt, err)
	}
	if !changed {
		return nil
	}

	if err := p.git("add", "-A", "."); err != nil {
		return fmt.Errorf("attempt %s: git add: %w", attempt, err)
	}

	message := fmt.Sprintf("goaltrack backup %s", time.Now().Format("2006-01-02 15:04:05"))
	if err := p.git("commit", "-m", message); err != nil {
		return fmt.Errorf("attempt %s: git commit: %w", attempt, err)
	}

	if !p.hasUpstream() {
		log.Printf("backup attempt %s: committed locally, no upstream configured", attempt)
		return nil
	}

	if err := p.git("push"); err != nil {
		return fmt.Errorf("attempt %s: git push: %w", attempt, err)
	}

	log.Printf("backup attempt %s: pushed", attempt)
	return nil
}

func (p *Pusher) isGitRepo() bool {
	cmd := exec.Command("git", "-C", p.dir, "rev-parse", "--git-dir")
	return cmd.Run() == nil
}

func (p *Pusher) hasChanges() (bool, error) {
	cmd := exec.Command("git", "-C", p.dir, "status", "--porcelain", ".")
	out, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return len(strings.TrimSpace(string(out))) > 0, nil
}

// hasUpstream 通过 git config 判断当前分支是否配置了上游
func (p *Pusher) hasUpstream() bool {
	branchCmd := exec.Command("git", "-C", p.dir, "symbolic-ref", "--short", "HEAD")
	branchOutput, err := branchCmd.Output()
	if err != nil {
		return false
	}
	branch := strings.TrimSpace(string(branchOutput))

	remote := exec.Command("git", "-C", p.dir, "config", "--get", fmt.Sprintf("branch.%s.remote", branch))
	merge := exec.Command("git", "-C", p.dir, "config", "--get", fmt.Sprintf("branch.%s.merge", branch))

	return remote.Run() == nil && merge.Run() == nil
}

func (p *Pusher) git(args ...string) error {
	cmd := exec.Command("git", append([]string{"-C", p.dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

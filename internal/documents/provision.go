package documents

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sgvr/sgvr/internal/models"
	"github.com/sgvr/sgvr/internal/tokens"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Step outcome statuses.
const (
	StatusCreated       = "created"
	StatusAlreadyExists = "already-exists"
	StatusError         = "error"
)

// Provisioning step actions, in execution order.
const (
	ActionEnsureTokenColumn  = "ensure-access-token-column"
	ActionBackfillTokens     = "backfill-document-tokens"
	ActionEnsureUploadRoot   = "ensure-upload-root"
	ActionEnsurePartitionDir = "ensure-partition-directory"
)

// backfillBatchSize bounds how many rows a single backfill round touches.
const backfillBatchSize = 100

// uploadDirMode is the permission mode for provisioned directories.
const uploadDirMode = 0o750

// Step reports the outcome of one provisioning action.
type Step struct {
	Action string `json:"action"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Provisioner retrofits scoped viewing tokens and storage layout onto
// existing data. Every step is idempotent and reports its own outcome, so a
// partial run leaves a well-defined state and re-running only performs the
// remaining work.
type Provisioner struct {
	db     *gorm.DB
	issuer *tokens.Issuer

	uploadRoot      string
	datePartitioned bool
}

// NewProvisioner constructs a provisioner.
func NewProvisioner(db *gorm.DB, issuer *tokens.Issuer, uploadRoot string, datePartitioned bool) *Provisioner {
	return &Provisioner{
		db:              db,
		issuer:          issuer,
		uploadRoot:      uploadRoot,
		datePartitioned: datePartitioned,
	}
}

// Run executes the provisioning steps in dependency order: the token column
// must exist before backfill, and backfill must succeed before directory
// provisioning. A failing step halts the remaining ones; the steps executed
// so far are always returned.
func (p *Provisioner) Run(ctx context.Context) ([]Step, error) {
	if p == nil || p.db == nil || p.issuer == nil {
		return nil, fmt.Errorf("documents: nil provisioner")
	}

	var steps []Step

	columnStep := p.ensureTokenColumn()
	steps = append(steps, columnStep)
	if columnStep.Status == StatusError {
		return steps, fmt.Errorf("documents: %s: %s", columnStep.Action, columnStep.Detail)
	}

	backfillStep := p.backfillTokens(ctx)
	steps = append(steps, backfillStep)
	if backfillStep.Status == StatusError {
		return steps, fmt.Errorf("documents: %s: %s", backfillStep.Action, backfillStep.Detail)
	}

	rootStep := ensureDirectory(ActionEnsureUploadRoot, p.uploadRoot)
	steps = append(steps, rootStep)
	if rootStep.Status == StatusError {
		return steps, fmt.Errorf("documents: %s: %s", rootStep.Action, rootStep.Detail)
	}

	if p.datePartitioned {
		partitionStep := ensureDirectory(ActionEnsurePartitionDir, PartitionDir(p.uploadRoot, time.Now()))
		steps = append(steps, partitionStep)
		if partitionStep.Status == StatusError {
			return steps, fmt.Errorf("documents: %s: %s", partitionStep.Action, partitionStep.Detail)
		}
	}

	return steps, nil
}

// ensureTokenColumn adds documents.access_token when the column is absent.
func (p *Provisioner) ensureTokenColumn() Step {
	migrator := p.db.Migrator()
	if migrator.HasColumn(&models.Document{}, "access_token") {
		return Step{Action: ActionEnsureTokenColumn, Status: StatusAlreadyExists}
	}
	if errAdd := migrator.AddColumn(&models.Document{}, "AccessToken"); errAdd != nil {
		return Step{Action: ActionEnsureTokenColumn, Status: StatusError, Detail: errAdd.Error()}
	}
	return Step{Action: ActionEnsureTokenColumn, Status: StatusCreated}
}

// backfillTokens issues scoped tokens for every document whose token is null
// or empty, in bounded batches. Rows provisioned in one batch drop out of
// the next query, so the loop terminates once all rows carry a token; a
// crash mid-run leaves only fully-written rows behind.
func (p *Provisioner) backfillTokens(ctx context.Context) Step {
	issued := 0
	for {
		var ids []uint64
		errQuery := p.db.WithContext(ctx).
			Model(&models.Document{}).
			Where("access_token IS NULL OR access_token = ''").
			Order("id ASC").
			Limit(backfillBatchSize).
			Pluck("id", &ids).Error
		if errQuery != nil {
			return Step{Action: ActionBackfillTokens, Status: StatusError, Detail: errQuery.Error()}
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			if _, _, errIssue := p.issuer.IssueDocumentToken(ctx, id); errIssue != nil {
				return Step{Action: ActionBackfillTokens, Status: StatusError, Detail: errIssue.Error()}
			}
			issued++
		}
	}

	if issued == 0 {
		return Step{Action: ActionBackfillTokens, Status: StatusAlreadyExists}
	}
	log.WithField("count", issued).Info("document tokens backfilled")
	return Step{Action: ActionBackfillTokens, Status: StatusCreated, Detail: fmt.Sprintf("issued %d tokens", issued)}
}

// ensureDirectory creates a directory with safe permissions when missing.
func ensureDirectory(action string, dir string) Step {
	info, errStat := os.Stat(dir)
	switch {
	case errStat == nil && info.IsDir():
		return Step{Action: action, Status: StatusAlreadyExists}
	case errStat == nil:
		return Step{Action: action, Status: StatusError, Detail: fmt.Sprintf("%s exists and is not a directory", dir)}
	case !os.IsNotExist(errStat):
		return Step{Action: action, Status: StatusError, Detail: errStat.Error()}
	}
	if errMkdir := os.MkdirAll(dir, uploadDirMode); errMkdir != nil {
		return Step{Action: action, Status: StatusError, Detail: errMkdir.Error()}
	}
	return Step{Action: action, Status: StatusCreated}
}

package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	db          *gorm.DB
	userRepo    *UserRepo
	projectRepo *ProjectRepo
	memberRepo  *MemberRepo
	columnRepo  *ColumnRepo
	tagRepo     *TagRepo
	taskRepo    *TaskRepo
	commentRepo *CommentRepo
	watcherRepo *WatcherRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		userRepo:    NewUserRepo(db),
		projectRepo: NewProjectRepo(db),
		memberRepo:  NewMemberRepo(db),
		columnRepo:  NewColumnRepo(db),
		tagRepo:     NewTagRepo(db),
		taskRepo:    NewTaskRepo(db),
		commentRepo: NewCommentRepo(db),
		watcherRepo: NewWatcherRepo(db),
	}
}

// Connect opens the primary Postgres connection. When replicaDSN is non-empty
// it is registered through dbresolver so reads can be served from the replica.
func Connect(dsn, replicaDSN string, gormConfig *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), gormConfig)
	if err != nil {
		return nil, err
	}

	if replicaDSN != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(replicaDSN)},
		}))
		if err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Transaction runs fn against a Database view bound to a single transaction.
// Returning an error from fn rolls back every write made through that view.
func (d Database) Transaction(fn func(tx Database) error) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Close releases the underlying connection pool.
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) MemberRepo() *MemberRepo {
	return d.memberRepo
}

func (d Database) ColumnRepo() *ColumnRepo {
	return d.columnRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) TaskRepo() *TaskRepo {
	return d.taskRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) WatcherRepo() *WatcherRepo {
	return d.watcherRepo
}

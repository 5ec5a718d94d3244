package users

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gradebook/internal/filex"
	"github.com/dmitrijs2005/gradebook/internal/models"
)

// FileRepository stores one user per line as "username:hash:admin", where
// admin is 1 or 0. Every operation loads the whole file, applies the change
// to a MemoryRepository and, if anything changed, rewrites the file
// atomically. A missing file is an empty store. Lines that do not have
// exactly three fields are skipped on load and therefore dropped on the
// next write.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

var _ Repository = (*FileRepository)(nil)

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Path returns the backing file name.
func (r *FileRepository) Path() string { return r.path }

// WithinTx runs fn against a snapshot of the file and writes the result
// back only if fn returns nil. Other FileRepository calls on the same
// value wait until fn finishes.
func (r *FileRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mem, err := r.load()
	if err != nil {
		return err
	}
	if err := fn(ctx, mem); err != nil {
		return err
	}
	return r.save(ctx, mem)
}

func (r *FileRepository) read(ctx context.Context, fn func(repo Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mem, err := r.load()
	if err != nil {
		return err
	}
	return fn(mem)
}

func (r *FileRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := validRecord(user); err != nil {
		return nil, err
	}
	var created *models.User
	err := r.WithinTx(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		created, err = repo.Create(ctx, user)
		return err
	})
	return created, err
}

func (r *FileRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var u *models.User
	err := r.read(ctx, func(repo Repository) error {
		var err error
		u, err = repo.GetUserByLogin(ctx, login)
		return err
	})
	return u, err
}

func (r *FileRepository) List(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	err := r.read(ctx, func(repo Repository) error {
		var err error
		out, err = repo.List(ctx)
		return err
	})
	return out, err
}

func (r *FileRepository) UpdatePasswordHash(ctx context.Context, login string, hash string) error {
	if strings.ContainsAny(hash, ":\n") {
		return fmt.Errorf("password hash contains a separator")
	}
	return r.WithinTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.UpdatePasswordHash(ctx, login, hash)
	})
}

func (r *FileRepository) Delete(ctx context.Context, login string) error {
	return r.WithinTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.Delete(ctx, login)
	})
}

func (r *FileRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.read(ctx, func(repo Repository) error {
		var err error
		n, err = repo.Count(ctx)
		return err
	})
	return n, err
}

func (r *FileRepository) load() (*MemoryRepository, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewMemoryRepository(), nil
		}
		return nil, fmt.Errorf("open users file: %w", err)
	}
	defer f.Close()

	users, err := decodeUsers(f)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	return NewMemoryRepository(users...), nil
}

func (r *FileRepository) save(ctx context.Context, mem *MemoryRepository) error {
	users, err := mem.List(ctx)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	encodeUsers(&buf, users)

	if err := filex.WriteFileAtomic(r.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write users file: %w", err)
	}
	return nil
}

func decodeUsers(rd io.Reader) ([]*models.User, error) {
	var users []*models.User
	seen := make(map[string]struct{})

	sc := bufio.NewScanner(rd)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		fields := strings.Split(line, ":")
		if len(fields) != 3 || fields[0] == "" || fields[1] == "" {
			continue
		}
		// first record wins, as a lookup over the file would
		if _, dup := seen[fields[0]]; dup {
			continue
		}
		seen[fields[0]] = struct{}{}
		users = append(users, &models.User{
			UserName:     fields[0],
			PasswordHash: fields[1],
			IsAdmin:      fields[2] == "1",
		})
	}
	return users, sc.Err()
}

func encodeUsers(w io.Writer, users []*models.User) {
	for _, u := range users {
		flag := 0
		if u.IsAdmin {
			flag = 1
		}
		fmt.Fprintf(w, "%s:%s:%d\n", u.UserName, u.PasswordHash, flag)
	}
}

func validRecord(u *models.User) error {
	if strings.ContainsAny(u.UserName, ":\n") || strings.ContainsAny(u.PasswordHash, ":\n") {
		return fmt.Errorf("user record contains a separator")
	}
	return nil
}

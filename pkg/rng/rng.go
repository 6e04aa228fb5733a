// Package rng - источник случайности для игрового ядра.
// Основной поток - криптографический (crypto/rand); если он
// недоступен, используется резервный поток ChaCha20, засеянный
// системной энтропией. Какой источник выдал значения, видно через
// Name() - это пишется в аудит раунда
package rng

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/crypto/chacha20"
	"gonum.org/v1/gonum/stat"
)

// Имена источников
const (
	SourceCrypto = "crypto"
	SourceChaCha = "chacha20"
	SourceSeeded = "seeded"
)

// ErrInvalidRange - некорректные аргументы выборки
var ErrInvalidRange = errors.New("rng: invalid range")

// Source - потокобезопасный источник случайных значений
type Source struct {
	mu     sync.Mutex
	stream io.Reader
	name   string
}

// New создаёт источник на crypto/rand. Если пробное чтение не
// удалось, сразу переключается на резервный поток ChaCha20
func New() *Source {
	var probe [8]byte
	if _, err := io.ReadFull(rand.Reader, probe[:]); err == nil {
		return &Source{stream: rand.Reader, name: SourceCrypto}
	}
	return &Source{stream: newChaChaStream(entropySeed()), name: SourceChaCha}
}

// NewSeeded создаёт детерминированный источник для тестов.
// В продакшене воспроизводимость от seed не требуется
func NewSeeded(seed []byte) *Source {
	return &Source{stream: newChaChaStream(seed), name: SourceSeeded}
}

// Name возвращает имя источника, выдающего значения
func (s *Source) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Reseed переключает источник. С seed - детерминированный поток,
// без seed - заново основной источник
func (s *Source) Reseed(seed []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seed != nil {
		s.stream = newChaChaStream(seed)
		s.name = SourceSeeded
		return
	}
	var probe [8]byte
	if _, err := io.ReadFull(rand.Reader, probe[:]); err == nil {
		s.stream = rand.Reader
		s.name = SourceCrypto
		return
	}
	s.stream = newChaChaStream(entropySeed())
	s.name = SourceChaCha
}

// Int возвращает равномерное целое из [min, max] включительно
func (s *Source) Int(min, max int) (int, error) {
	if min > max {
		return 0, ErrInvalidRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := uint64(max) - uint64(min) + 1
	if n == 0 {
		// Полный диапазон uint64 - отбраковка не нужна
		return min + int(s.next64()), nil
	}

	// Отбраковка хвоста, чтобы остаток по модулю был равномерным
	limit := math.MaxUint64 - math.MaxUint64%n
	for {
		v := s.next64()
		if v < limit {
			return min + int(v%n), nil
		}
	}
}

// Float возвращает равномерное число из [0, 1)
func (s *Source) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.float()
}

// Weighted возвращает индекс i с вероятностью weights[i]/sum(weights).
// При ошибках округления срабатывает последний индекс
func (s *Source) Weighted(weights []int) (int, error) {
	if len(weights) == 0 {
		return 0, ErrInvalidRange
	}
	total := 0
	for _, w := range weights {
		if w < 0 {
			return 0, ErrInvalidRange
		}
		total += w
	}
	if total <= 0 {
		return 0, ErrInvalidRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.float() * float64(total)
	acc := 0.0
	for i, w := range weights {
		acc += float64(w)
		if target < acc {
			return i, nil
		}
	}
	return len(weights) - 1, nil
}

// SelfTest - быстрая проверка распределения: границы значений,
// среднее и дисперсия выборки в разумных пределах равномерного
// распределения
func (s *Source) SelfTest() bool {
	const n = 2048
	sample := make([]float64, n)
	for i := range sample {
		v := s.Float()
		if v < 0 || v >= 1 {
			return false
		}
		sample[i] = v
	}

	mean := stat.Mean(sample, nil)
	if mean < 0.45 || mean > 0.55 {
		return false
	}
	// Дисперсия равномерного [0,1) = 1/12
	variance := stat.Variance(sample, nil)
	if variance < 0.06 || variance > 0.11 {
		return false
	}

	v, err := s.Int(1, 100)
	return err == nil && v >= 1 && v <= 100
}

// Shuffle возвращает равномерную перестановку seq (Фишер-Йетс).
// Исходный срез не меняется
func Shuffle[T any](s *Source, seq []T) []T {
	out := make([]T, len(seq))
	copy(out, seq)
	for i := len(out) - 1; i > 0; i-- {
		j, _ := s.Int(0, i)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// next64 читает 8 байт из потока. При отказе основного источника
// переключается на резервный
func (s *Source) next64() uint64 {
	var b [8]byte
	if _, err := io.ReadFull(s.stream, b[:]); err != nil {
		s.stream = newChaChaStream(entropySeed())
		s.name = SourceChaCha
		_, _ = io.ReadFull(s.stream, b[:])
	}
	return binary.BigEndian.Uint64(b[:])
}

func (s *Source) float() float64 {
	// 53 старших бита дают равномерное [0,1)
	return float64(s.next64()>>11) / (1 << 53)
}

// chaChaStream - бесконечный поток ключей ChaCha20 как io.Reader
type chaChaStream struct {
	c *chacha20.Cipher
}

func newChaChaStream(seed []byte) io.Reader {
	key := sha256.Sum256(seed)
	c, err := chacha20.NewUnauthenticatedCipher(key[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		// Размеры ключа и nonce фиксированы - сюда попасть нельзя
		panic("rng: chacha20 init: " + err.Error())
	}
	return &chaChaStream{c: c}
}

func (s *chaChaStream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	s.c.XORKeyStream(p, p)
	return len(p), nil
}

// entropySeed собирает системную энтропию для резервного потока
func entropySeed() []byte {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	seed := make([]byte, 0, 32)
	seed = binary.BigEndian.AppendUint64(seed, uint64(time.Now().UnixNano()))
	seed = binary.BigEndian.AppendUint64(seed, uint64(os.Getpid()))
	seed = binary.BigEndian.AppendUint64(seed, m.Alloc)
	seed = binary.BigEndian.AppendUint64(seed, m.TotalAlloc)
	return seed
}

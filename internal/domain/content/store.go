package content

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Store читает и пишет плоские файлы с разделами и уроками:
// chapters.txt — общий индекс разделов, секции "Grade N",
// grade_<N>.txt — уроки одного класса, секции "l<глава>:".
type Store struct {
	dir string
	log *slog.Logger
}

func NewStore(dir string, log *slog.Logger) *Store {
	return &Store{dir: dir, log: log}
}

func (s *Store) chaptersPath() string {
	return filepath.Join(s.dir, "chapters.txt")
}

func (s *Store) lessonsPath(grade int) string {
	return filepath.Join(s.dir, fmt.Sprintf("grade_%d.txt", grade))
}

func (s *Store) readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn("content file missing", "path", path)
			return nil, nil
		}
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

func (s *Store) writeLines(path string, lines []string) error {
	out := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		s.log.Error("content write failed", "path", path, "err", err)
		return err
	}
	return nil
}

func gradeHeader(line string) (int, bool) {
	if !strings.HasPrefix(line, "Grade") {
		return 0, false
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func chapterHeader(line string) (int, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "l") || !strings.HasSuffix(trimmed, ":") {
		return 0, false
	}
	n, err := strconv.Atoi(trimmed[1 : len(trimmed)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseChapterLine разбирает строку "<номер>: <название>{<режим>}[<дд/мм>]".
// Скобочные части необязательны: без {} раздел открыт, без [] даты нет.
func parseChapterLine(line string) (Chapter, bool) {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return Chapter{}, false
	}
	number, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || number < 1 {
		return Chapter{}, false
	}
	info := strings.TrimSpace(parts[1])

	ch := Chapter{Number: number}
	nameEnd := len(info)
	if i := strings.Index(info, "{"); i >= 0 {
		nameEnd = i
		if j := strings.Index(info[i:], "}"); j > 0 {
			ch.Access = Mode(strings.TrimSpace(info[i+1 : i+j]))
		}
	}
	if i := strings.Index(info, "["); i >= 0 {
		if i < nameEnd {
			nameEnd = i
		}
		if j := strings.Index(info[i:], "]"); j > 0 {
			d, err := ParseDayMonth(info[i+1 : i+j])
			if err != nil {
				return Chapter{}, false
			}
			ch.OpeningDate = &d
		}
	}
	ch.Name = strings.TrimSpace(info[:nameEnd])
	if ch.Name == "" {
		return Chapter{}, false
	}
	return ch, true
}

func formatChapterLine(ch Chapter) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d: %s", ch.Number, strings.ReplaceAll(ch.Name, "_", " "))
	if ch.Access != ModeOpen {
		fmt.Fprintf(&sb, "{%s}", ch.Access)
	}
	if ch.OpeningDate != nil {
		fmt.Fprintf(&sb, "[%s]", ch.OpeningDate)
	}
	return sb.String()
}

// Chapters возвращает разделы класса в порядке следования в файле.
// Отсутствующий файл — пустой результат без ошибки.
func (s *Store) Chapters(grade int) ([]Chapter, error) {
	lines, err := s.readLines(s.chaptersPath())
	if err != nil {
		return nil, err
	}

	var out []Chapter
	inGrade := false
	for _, line := range lines {
		if g, ok := gradeHeader(line); ok {
			inGrade = g == grade
			continue
		}
		if !inGrade || strings.TrimSpace(line) == "" {
			continue
		}
		ch, ok := parseChapterLine(line)
		if !ok {
			s.log.Warn("skipping malformed chapter line", "line", line)
			continue
		}
		out = append(out, ch)
	}
	return out, nil
}

func (s *Store) Chapter(grade, number int) (*Chapter, error) {
	chapters, err := s.Chapters(grade)
	if err != nil {
		return nil, err
	}
	for i := range chapters {
		if chapters[i].Number == number {
			return &chapters[i], nil
		}
	}
	return nil, nil
}

// SaveChapters переписывает только блок данного класса, строки прочих
// классов сохраняются байт-в-байт. Отсутствующий блок дописывается в конец.
func (s *Store) SaveChapters(grade int, chapters []Chapter) error {
	lines, err := s.readLines(s.chaptersPath())
	if err != nil {
		return err
	}

	var out []string
	found := false
	skipping := false
	for _, line := range lines {
		if g, ok := gradeHeader(line); ok {
			if g == grade {
				found = true
				skipping = true
				out = append(out, line)
				for _, ch := range chapters {
					out = append(out, formatChapterLine(ch))
				}
				continue
			}
			skipping = false
		}
		if skipping {
			continue
		}
		out = append(out, line)
	}
	if !found {
		out = append(out, fmt.Sprintf("Grade %d", grade))
		for _, ch := range chapters {
			out = append(out, formatChapterLine(ch))
		}
	}
	return s.writeLines(s.chaptersPath(), out)
}

func parseLessonLine(line string) (Lesson, bool) {
	parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
	if len(parts) != 2 {
		return Lesson{}, false
	}
	number, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || number < 1 {
		return Lesson{}, false
	}
	rest := strings.TrimSpace(parts[1])

	l := Lesson{Number: number, Name: rest}
	if i := strings.LastIndex(rest, "("); i >= 0 && strings.HasSuffix(rest, ")") {
		l.Name = strings.TrimSpace(rest[:i])
		l.URL = strings.TrimSpace(rest[i+1 : len(rest)-1])
	}
	if l.Name == "" {
		return Lesson{}, false
	}
	return l, true
}

func formatLessonLine(l Lesson) string {
	name := strings.ReplaceAll(l.Name, "_", " ")
	if l.URL == "" {
		return fmt.Sprintf("    %d: %s", l.Number, name)
	}
	return fmt.Sprintf("    %d: %s (%s)", l.Number, name, l.URL)
}

// Lessons возвращает уроки одной главы в порядке следования в файле.
func (s *Store) Lessons(grade, chapter int) ([]Lesson, error) {
	all, err := s.AllLessons(grade)
	if err != nil {
		return nil, err
	}
	return all[chapter], nil
}

// AllLessons разбирает весь файл класса: глава -> уроки.
func (s *Store) AllLessons(grade int) (map[int][]Lesson, error) {
	lines, err := s.readLines(s.lessonsPath(grade))
	if err != nil {
		return nil, err
	}

	all := map[int][]Lesson{}
	current := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if ch, ok := chapterHeader(line); ok {
			current = ch
			if _, exists := all[current]; !exists {
				all[current] = nil
			}
			continue
		}
		if current == 0 {
			continue
		}
		l, ok := parseLessonLine(line)
		if !ok {
			s.log.Warn("skipping malformed lesson line", "grade", grade, "line", line)
			continue
		}
		all[current] = append(all[current], l)
	}
	return all, nil
}

// SaveLessons переписывает файл класса целиком: главы по возрастанию номера,
// уроки внутри главы по возрастанию номера.
func (s *Store) SaveLessons(grade int, all map[int][]Lesson) error {
	chapters := make([]int, 0, len(all))
	for ch := range all {
		chapters = append(chapters, ch)
	}
	sort.Ints(chapters)

	var out []string
	for _, ch := range chapters {
		out = append(out, fmt.Sprintf("l%d:", ch))
		lessons := append([]Lesson(nil), all[ch]...)
		sort.Slice(lessons, func(i, j int) bool { return lessons[i].Number < lessons[j].Number })
		for _, l := range lessons {
			out = append(out, formatLessonLine(l))
		}
	}
	return s.writeLines(s.lessonsPath(grade), out)
}

// AddLesson дописывает урок с номером count+1 в главу и возвращает его.
func (s *Store) AddLesson(grade, chapter int, name, url string) (Lesson, error) {
	all, err := s.AllLessons(grade)
	if err != nil {
		return Lesson{}, err
	}
	l := Lesson{
		Number: len(all[chapter]) + 1,
		Name:   strings.TrimSpace(name),
		URL:    strings.TrimSpace(url),
	}
	all[chapter] = append(all[chapter], l)
	if err := s.SaveLessons(grade, all); err != nil {
		return Lesson{}, err
	}
	return l, nil
}

func (s *Store) RenameChapter(grade, number int, name string) error {
	chapters, err := s.Chapters(grade)
	if err != nil {
		return err
	}
	for i := range chapters {
		if chapters[i].Number == number {
			chapters[i].Name = name
			return s.SaveChapters(grade, chapters)
		}
	}
	return ErrChapterNotFound
}

func (s *Store) SetOpeningDate(grade, number int, d DayMonth) error {
	chapters, err := s.Chapters(grade)
	if err != nil {
		return err
	}
	for i := range chapters {
		if chapters[i].Number == number {
			chapters[i].OpeningDate = &d
			return s.SaveChapters(grade, chapters)
		}
	}
	return ErrChapterNotFound
}

func (s *Store) RenameLesson(grade, chapter, number int, name string) error {
	return s.updateLesson(grade, chapter, number, func(l *Lesson) { l.Name = name })
}

func (s *Store) SetLessonURL(grade, chapter, number int, url string) error {
	return s.updateLesson(grade, chapter, number, func(l *Lesson) { l.URL = strings.TrimSpace(url) })
}

func (s *Store) updateLesson(grade, chapter, number int, mutate func(*Lesson)) error {
	all, err := s.AllLessons(grade)
	if err != nil {
		return err
	}
	lessons := all[chapter]
	for i := range lessons {
		if lessons[i].Number == number {
			mutate(&lessons[i])
			all[chapter] = lessons
			return s.SaveLessons(grade, all)
		}
	}
	return ErrLessonNotFound
}

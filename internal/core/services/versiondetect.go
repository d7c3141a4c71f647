package services

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/docsweep/docsweep-cli/internal/core/domain"
	"github.com/docsweep/docsweep-cli/internal/core/ports/driven"
	"github.com/docsweep/docsweep-cli/internal/logger"
)

// patternKind tags what a version pattern extracts, so scoring dispatches
// on meaning rather than on the pattern's position in the list.
type patternKind int

const (
	kindVersionNumber patternKind = iota
	kindRevisionNumber
	kindDraftNumber
	kindCopyIndicator
	kindKeyword
	kindDateYMD
	kindDateDMY
	kindTimestamp
	kindParenNumber
	kindParenWord
)

// versionPattern pairs a compiled filename pattern with its kind.
type versionPattern struct {
	kind patternKind
	re   *regexp.Regexp
}

// versionPatterns is the fixed, ordered set of markers stripped from
// filename stems. Order matters for base-name extraction: more specific
// patterns run before the bare numeric ones.
var versionPatterns = []versionPattern{
	// Version numbers: v1, v2.0, version1, ver2
	{kindVersionNumber, regexp.MustCompile(`(?i)[_\-\s]v(\d+)(?:\.(\d+))?(?:\.(\d+))?[_\-\s]?`)},
	{kindVersionNumber, regexp.MustCompile(`(?i)[_\-\s]version[_\-\s]?(\d+)(?:\.(\d+))?(?:\.(\d+))?[_\-\s]?`)},
	{kindVersionNumber, regexp.MustCompile(`(?i)[_\-\s]ver[_\-\s]?(\d+)(?:\.(\d+))?(?:\.(\d+))?[_\-\s]?`)},

	// Revision numbers: rev1, revision2, r3
	{kindRevisionNumber, regexp.MustCompile(`(?i)[_\-\s]rev(?:ision)?[_\-\s]?(\d+)[_\-\s]?`)},
	{kindRevisionNumber, regexp.MustCompile(`(?i)[_\-\s]r(\d+)[_\-\s]?`)},

	// Draft numbers: draft1, draft_2
	{kindDraftNumber, regexp.MustCompile(`(?i)[_\-\s]draft[_\-\s]?(\d+)[_\-\s]?`)},

	// Copy indicators: copy, copy(1), copy_2
	{kindCopyIndicator, regexp.MustCompile(`(?i)[_\-\s]copy(?:[_\-\s]?\((\d+)\))?[_\-\s]?`)},
	{kindCopyIndicator, regexp.MustCompile(`(?i)[_\-\s]copy[_\-\s]?(\d+)[_\-\s]?`)},

	// Final/backup keywords
	{kindKeyword, regexp.MustCompile(`(?i)[_\-\s](final|backup|old|new|latest|current)[_\-\s]?(\d+)?[_\-\s]?`)},

	// Date stamps: 20231201, 2023-12-01, 01122023
	{kindDateYMD, regexp.MustCompile(`[_\-\s](\d{4})[_\-]?(\d{2})[_\-]?(\d{2})[_\-\s]?`)},
	{kindDateDMY, regexp.MustCompile(`[_\-\s](\d{2})[_\-]?(\d{2})[_\-]?(\d{4})[_\-\s]?`)},

	// Timestamps: 143000, 14-30-00
	{kindTimestamp, regexp.MustCompile(`[_\-\s](\d{2})[_\-]?(\d{2})[_\-]?(\d{2})[_\-\s]?`)},

	// Parenthetical markers: (1), (2), (copy)
	{kindParenNumber, regexp.MustCompile(`\((\d+)\)`)},
	{kindParenWord, regexp.MustCompile(`(?i)\((copy|backup|final|old|new)\)`)},
}

// keywordScores maps versioning keywords to their recency weight. The
// values are hand-tuned policy kept for compatibility, not derived facts.
var keywordScores = map[string]float64{
	"old":     -10,
	"backup":  -5,
	"draft":   0,
	"current": 5,
	"new":     8,
	"latest":  10,
	"final":   15,
}

// versionInfo is the per-document derived record used only for ordering
// within a version group and discarded afterward.
type versionInfo struct {
	document          *domain.DocumentRecord
	filename          string
	versionNumber     []int
	revisionNumber    int
	hasRevision       bool
	copyIndicator     string
	dateInfo          string
	specialIndicators []string
	versionScore      float64
}

// hasIndicator reports whether any versioning signal was recognised.
func (v *versionInfo) hasIndicator() bool {
	return len(v.versionNumber) > 0 || v.hasRevision ||
		v.copyIndicator != "" || v.dateInfo != "" || len(v.specialIndicators) > 0
}

// VersionDetector finds document version families by filename pattern
// analysis, with a fuzzy filename fallback for families that use no
// recognisable marker.
type VersionDetector struct {
	filenameSimilarityThreshold float64
	enableFuzzyMatching         bool
	matcher                     driven.FilenameMatcher

	// Per-run statistics, reset explicitly between runs.
	documentsProcessed  int
	versionGroupsFound  int
	filenameComparisons int
}

// NewVersionDetector creates a version detector. The matcher is optional:
// when nil the fuzzy fallback pass is skipped entirely.
func NewVersionDetector(cfg domain.DetectionConfig, matcher driven.FilenameMatcher) *VersionDetector {
	return &VersionDetector{
		filenameSimilarityThreshold: cfg.FilenameSimilarityThreshold,
		enableFuzzyMatching:         cfg.EnableFuzzyMatching,
		matcher:                     matcher,
	}
}

// FindDocumentVersions groups documents into version families.
func (d *VersionDetector) FindDocumentVersions(docs []domain.DocumentRecord) *domain.VersionDetectionResult {
	logger.Info("Detecting versions for %d documents", len(docs))

	baseGroups, baseOrder := d.groupByBaseFilename(docs)

	var versionGroups []domain.DuplicateGroup
	for _, baseName := range baseOrder {
		members := baseGroups[baseName]
		if len(members) < 2 {
			continue
		}
		if group := d.analyseVersionGroup(baseName, members); group != nil {
			versionGroups = append(versionGroups, *group)
		}
	}

	if d.enableFuzzyMatching && d.matcher != nil {
		fuzzy := d.findFuzzyFilenameMatches(docs)
		versionGroups = append(versionGroups, fuzzy...)
	} else if d.enableFuzzyMatching {
		logger.Warn("Fuzzy matching enabled but no matcher configured, skipping")
	}

	d.versionGroupsFound = len(versionGroups)
	d.documentsProcessed = len(docs)

	return &domain.VersionDetectionResult{
		Method:        "filename_versioning",
		VersionGroups: versionGroups,
		Statistics: domain.VersionStatistics{
			DocumentsProcessed:  d.documentsProcessed,
			VersionGroupsFound:  d.versionGroupsFound,
			FilenameComparisons: d.filenameComparisons,
			BaseFilenameGroups:  len(baseGroups),
		},
	}
}

// groupByBaseFilename buckets documents by their version-stripped stem.
// Returns the buckets plus first-seen key order for determinism.
func (d *VersionDetector) groupByBaseFilename(
	docs []domain.DocumentRecord,
) (map[string][]*domain.DocumentRecord, []string) {
	groups := make(map[string][]*domain.DocumentRecord)
	var order []string

	for i := range docs {
		base := extractBaseFilename(docs[i].Filename)
		if _, seen := groups[base]; !seen {
			order = append(order, base)
		}
		groups[base] = append(groups[base], &docs[i])
	}

	return groups, order
}

var separatorRuns = regexp.MustCompile(`[_\-\s]+`)

// extractBaseFilename strips every version marker from the stem, then
// collapses separator runs. Stems that strip down to fewer than three
// characters keep their original form to avoid over-merging short names.
func extractBaseFilename(filename string) string {
	stem := strings.TrimSuffix(filename, extOf(filename))

	base := stem
	for _, p := range versionPatterns {
		base = p.re.ReplaceAllString(base, "")
	}

	base = separatorRuns.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_-")

	if len(base) < 3 {
		base = stem
	}

	return strings.ToLower(base)
}

// extOf returns the extension of a filename including the dot.
func extOf(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		return filename[idx:]
	}
	return ""
}

// analyseVersionGroup validates a candidate group and builds its result.
// Candidates pass only when at least one member carries a recognised
// version indicator, all members share an extension, and their size
// variance stays below (0.5 * mean)^2 - guardrails against grouping
// unrelated files that merely share a name.
func (d *VersionDetector) analyseVersionGroup(baseName string, members []*domain.DocumentRecord) *domain.DuplicateGroup {
	infos := make([]*versionInfo, len(members))
	for i, doc := range members {
		infos[i] = extractVersionInfo(doc)
	}

	if !isValidVersionGroup(infos) {
		return nil
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].versionScore < infos[j].versionScore
	})

	group := &domain.DuplicateGroup{
		GroupID:       fmt.Sprintf("ver_%d", fnvMod(baseName, 10000)),
		Type:          domain.GroupTypeFilenameVersions,
		BaseName:      baseName,
		DocumentCount: len(members),
		VersionAnalysis: &domain.VersionAnalysis{
			VersionPattern: identifyVersionPattern(infos),
		},
		Timeline: buildTimeline(infos),
	}
	for _, info := range infos {
		group.Documents = append(group.Documents, info.document.Summary())
		if len(info.versionNumber) > 0 {
			group.VersionAnalysis.HasVersionNumbers = true
		}
		if info.dateInfo != "" {
			group.VersionAnalysis.HasDates = true
		}
		if info.copyIndicator != "" {
			group.VersionAnalysis.HasCopyIndicators = true
		}
	}

	return group
}

// extractVersionInfo parses every marker out of a filename and folds the
// results into a single recency score. The score is a total order used
// purely for ranking, not a normalised probability.
func extractVersionInfo(doc *domain.DocumentRecord) *versionInfo {
	stem := strings.ToLower(strings.TrimSuffix(doc.Filename, extOf(doc.Filename)))

	info := &versionInfo{
		document: doc,
		filename: doc.Filename,
	}

	for _, p := range versionPatterns {
		match := p.re.FindStringSubmatch(stem)
		if match == nil {
			continue
		}

		switch p.kind {
		case kindVersionNumber:
			var parts []int
			for _, m := range match[1:] {
				if n, err := strconv.Atoi(m); err == nil {
					parts = append(parts, n)
				}
			}
			if len(parts) > 0 && len(info.versionNumber) == 0 {
				info.versionNumber = parts
				weight := 1.0
				for range parts[1:] {
					weight *= 10
				}
				for _, n := range parts {
					info.versionScore += float64(n) * weight
					weight /= 10
				}
			}

		case kindRevisionNumber:
			if n, err := strconv.Atoi(match[1]); err == nil && !info.hasRevision {
				info.revisionNumber = n
				info.hasRevision = true
				info.versionScore += float64(n)
			}

		case kindDraftNumber:
			if n, err := strconv.Atoi(match[1]); err == nil {
				info.versionScore += float64(n)
				info.specialIndicators = append(info.specialIndicators, "draft_"+match[1])
			}

		case kindCopyIndicator, kindParenNumber:
			indicator := "copy"
			if len(match) > 1 && match[1] != "" {
				indicator = match[1]
			}
			if info.copyIndicator == "" {
				info.copyIndicator = indicator
			}
			if n, err := strconv.Atoi(indicator); err == nil {
				info.versionScore += float64(n)
			}

		case kindKeyword, kindParenWord:
			keyword := strings.ToLower(match[1])
			info.specialIndicators = append(info.specialIndicators, keyword)
			info.versionScore += keywordScores[keyword]

		case kindDateYMD:
			if info.dateInfo == "" {
				year, month, day := match[1], match[2], match[3]
				if score, ok := dateScore(year, month, day); ok {
					info.dateInfo = year + "-" + month + "-" + day
					info.versionScore += score
				}
			}

		case kindDateDMY:
			if info.dateInfo == "" {
				day, month, year := match[1], match[2], match[3]
				if score, ok := dateScore(year, month, day); ok {
					info.dateInfo = year + "-" + month + "-" + day
					info.versionScore += score
				}
			}

		case kindTimestamp:
			// Recognised for stripping only; too ambiguous to score.
		}
	}

	// File modification time is the final signal: days since epoch, so
	// newer files rank later even without any filename marker.
	if doc.ModifiedDate != nil {
		info.versionScore += float64(doc.ModifiedDate.Unix()) / (24 * 3600)
	}

	return info
}

// dateScore converts a parsed date stamp to its YYYYMMDD integer weight.
// Malformed fragments are treated as absent, not as errors.
func dateScore(year, month, day string) (float64, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return 0, false
	}
	return float64(y*10000 + m*100 + d), true
}

// isValidVersionGroup applies the false-positive guardrails.
func isValidVersionGroup(infos []*versionInfo) bool {
	anyIndicator := false
	for _, info := range infos {
		if info.hasIndicator() {
			anyIndicator = true
			break
		}
	}
	if !anyIndicator {
		return false
	}

	extensions := make(map[string]struct{})
	sizes := make([]float64, len(infos))
	for i, info := range infos {
		extensions[extOf(info.filename)] = struct{}{}
		sizes[i] = float64(info.document.Size)
	}
	if len(extensions) != 1 {
		return false
	}

	mean := stat.Mean(sizes, nil)
	variance := stat.PopVariance(sizes, nil)
	return variance < (mean*0.5)*(mean*0.5)
}

// identifyVersionPattern names the signals present in a group.
func identifyVersionPattern(infos []*versionInfo) string {
	var patterns []string

	has := func(f func(*versionInfo) bool) bool {
		for _, info := range infos {
			if f(info) {
				return true
			}
		}
		return false
	}

	if has(func(v *versionInfo) bool { return len(v.versionNumber) > 0 }) {
		patterns = append(patterns, "version_numbers")
	}
	if has(func(v *versionInfo) bool { return v.hasRevision }) {
		patterns = append(patterns, "revision_numbers")
	}
	if has(func(v *versionInfo) bool { return v.copyIndicator != "" }) {
		patterns = append(patterns, "copy_indicators")
	}
	if has(func(v *versionInfo) bool { return v.dateInfo != "" }) {
		patterns = append(patterns, "date_stamps")
	}
	if has(func(v *versionInfo) bool { return len(v.specialIndicators) > 0 }) {
		patterns = append(patterns, "special_indicators")
	}

	if len(patterns) == 0 {
		return "unknown"
	}
	return strings.Join(patterns, ", ")
}

// buildTimeline turns score-sorted version infos into timeline entries.
// Index 0 is the likely original, the last entry the likely latest.
func buildTimeline(sorted []*versionInfo) []domain.TimelineEntry {
	timeline := make([]domain.TimelineEntry, len(sorted))

	for i, info := range sorted {
		entry := domain.TimelineEntry{
			Order:            i + 1,
			Filename:         info.filename,
			VersionScore:     info.versionScore,
			IsLikelyOriginal: i == 0,
			IsLikelyLatest:   i == len(sorted)-1,
			Indicators:       []string{},
		}

		if len(info.versionNumber) > 0 {
			parts := make([]string, len(info.versionNumber))
			for j, n := range info.versionNumber {
				parts[j] = strconv.Itoa(n)
			}
			entry.Indicators = append(entry.Indicators, "v"+strings.Join(parts, "."))
		}
		if info.hasRevision {
			entry.Indicators = append(entry.Indicators, fmt.Sprintf("rev%d", info.revisionNumber))
		}
		if info.copyIndicator != "" {
			entry.Indicators = append(entry.Indicators, fmt.Sprintf("copy(%s)", info.copyIndicator))
		}
		if info.dateInfo != "" {
			entry.Indicators = append(entry.Indicators, fmt.Sprintf("date(%s)", info.dateInfo))
		}
		entry.Indicators = append(entry.Indicators, info.specialIndicators...)

		if info.document.ModifiedDate != nil {
			entry.FileDate = info.document.ModifiedDate.Format(time.RFC3339)
		}

		timeline[i] = entry
	}

	return timeline
}

// findFuzzyFilenameMatches groups remaining documents whose stems exceed
// the string-similarity threshold. Greedy single-pass grouping: each
// document joins the first group whose seed it matches.
func (d *VersionDetector) findFuzzyFilenameMatches(docs []domain.DocumentRecord) []domain.DuplicateGroup {
	var fuzzyGroups []domain.DuplicateGroup
	claimed := make([]bool, len(docs))

	for i := range docs {
		if claimed[i] {
			continue
		}

		members := []*domain.DocumentRecord{&docs[i]}
		claimed[i] = true

		for j := i + 1; j < len(docs); j++ {
			if claimed[j] {
				continue
			}

			similarity := d.filenameSimilarity(docs[i].Filename, docs[j].Filename)
			d.filenameComparisons++

			if similarity >= d.filenameSimilarityThreshold {
				members = append(members, &docs[j])
				claimed[j] = true
			}
		}

		if len(members) < 2 {
			continue
		}

		fuzzyGroups = append(fuzzyGroups, domain.DuplicateGroup{
			GroupID:       fmt.Sprintf("fuzzy_%d", len(fuzzyGroups)),
			Type:          domain.GroupTypeFuzzyFilename,
			DocumentCount: len(members),
			Documents:     summarise(members),
			FilenameMatch: d.analyseFilenameSimilarities(members),
		})
	}

	return fuzzyGroups
}

// filenameSimilarity compares two stems through the configured matcher.
func (d *VersionDetector) filenameSimilarity(a, b string) float64 {
	stemA := strings.ToLower(strings.TrimSuffix(a, extOf(a)))
	stemB := strings.ToLower(strings.TrimSuffix(b, extOf(b)))
	return d.matcher.Ratio(stemA, stemB)
}

// analyseFilenameSimilarities summarises pairwise stem similarity and
// shared vocabulary within a fuzzy group.
func (d *VersionDetector) analyseFilenameSimilarities(members []*domain.DocumentRecord) *domain.FilenameSimilarityAnalysis {
	var sims []float64
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			sims = append(sims, d.filenameSimilarity(members[i].Filename, members[j].Filename))
		}
	}

	lengths := make([]int, len(members))
	for i, doc := range members {
		lengths[i] = len(doc.Filename)
	}

	analysis := &domain.FilenameSimilarityAnalysis{
		FilenameLengths: lengths,
		CommonWords:     commonWords(members),
	}
	if len(sims) > 0 {
		analysis.AvgSimilarity = stat.Mean(sims, nil)
		analysis.MinSimilarity = minFloat(sims)
		analysis.MaxSimilarity = maxFloat(sims)
	}

	return analysis
}

var wordSeparators = regexp.MustCompile(`[_\-\s.]+`)

// commonWords returns words appearing in more than one filename stem,
// most frequent first.
func commonWords(members []*domain.DocumentRecord) []string {
	counts := make(map[string]int)
	for _, doc := range members {
		stem := strings.ToLower(strings.TrimSuffix(doc.Filename, extOf(doc.Filename)))
		for _, word := range wordSeparators.Split(stem, -1) {
			if len(word) > 2 {
				counts[word]++
			}
		}
	}

	var words []string
	for word, count := range counts {
		if count > 1 {
			words = append(words, word)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	return words
}

// VersionRecommendations proposes keeping each group's latest version
// and archiving the rest.
func (d *VersionDetector) VersionRecommendations(result *domain.VersionDetectionResult) []domain.Recommendation {
	var recommendations []domain.Recommendation

	for _, group := range result.VersionGroups {
		if len(group.Timeline) < 2 {
			continue
		}

		latest := group.Timeline[len(group.Timeline)-1]
		older := make([]domain.TimelineEntry, 0, len(group.Timeline)-1)
		older = append(older, group.Timeline[:len(group.Timeline)-1]...)

		var saved int64
		for _, doc := range group.Documents {
			if doc.Filename != latest.Filename {
				saved += doc.Size
			}
		}

		recommendations = append(recommendations, domain.Recommendation{
			GroupID:         group.GroupID,
			Action:          domain.ActionConsolidateVersions,
			KeepVersion:     &latest,
			ArchiveVersions: older,
			SpaceSaved:      saved,
			SpaceSavedMB:    float64(saved) / (1024 * 1024),
			Reasoning: fmt.Sprintf("Keep latest version (%s) and archive %d older versions",
				latest.Filename, len(older)),
		})
	}

	return recommendations
}

// Statistics returns the per-run counters.
func (d *VersionDetector) Statistics() domain.VersionStatistics {
	return domain.VersionStatistics{
		DocumentsProcessed:  d.documentsProcessed,
		VersionGroupsFound:  d.versionGroupsFound,
		FilenameComparisons: d.filenameComparisons,
	}
}

// ResetStatistics clears the per-run counters.
func (d *VersionDetector) ResetStatistics() {
	d.documentsProcessed = 0
	d.versionGroupsFound = 0
	d.filenameComparisons = 0
}

// fnvMod hashes a string into [0, mod) for scheme-local group IDs.
func fnvMod(s string, mod uint32) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32() % mod
}

package worker

import (
	"log"
	"sync"
	"time"

	"trendgram/pkg/metrics"
)

// ViewSink 浏览数落库端（由 post 仓库实现，避免包循环引用）
type ViewSink interface {
	IncrementViews(postID uint, n int64) error
}

// ViewTask 一批待落库的浏览增量
type ViewTask struct {
	PostID uint
	Count  int64
	Retry  int // 重试次数
}

// ViewRecorder 浏览计数批处理池
// Record 只做入队；收集协程按帖子聚合，定期把增量批量写库。
// views 只增不减，丢失一批只是少计数，不破坏单调性
type ViewRecorder struct {
	pending    chan uint
	flushQueue chan ViewTask
	retryQueue chan ViewTask
	sink       ViewSink

	workerNum     int
	maxRetry      int
	flushInterval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

// NewViewRecorder 创建浏览计数池
func NewViewRecorder(sink ViewSink, workerNum, bufferSize int) *ViewRecorder {
	return &ViewRecorder{
		pending:       make(chan uint, bufferSize),
		flushQueue:    make(chan ViewTask, bufferSize/2),
		retryQueue:    make(chan ViewTask, bufferSize/4),
		sink:          sink,
		workerNum:     workerNum,
		maxRetry:      3,
		flushInterval: 500 * time.Millisecond,
		stop:          make(chan struct{}),
	}
}

func (p *ViewRecorder) Start() {
	go p.collector()
	for i := 0; i < p.workerNum; i++ {
		go p.worker(i)
	}
	go p.retryWorker()
	log.Printf("View recorder started with %d workers", p.workerNum)
}

// Record 记录一次浏览；队列满时丢弃并记日志（计数丢失可接受，阻塞请求不可接受）
func (p *ViewRecorder) Record(postID uint) {
	select {
	case p.pending <- postID:
	default:
		log.Printf("View queue full, dropping view for post %d", postID)
	}
}

// Stop 停止收集并刷掉剩余增量
func (p *ViewRecorder) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// collector 按帖子聚合增量，定期成批下发
func (p *ViewRecorder) collector() {
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	counts := make(map[uint]int64)

	flush := func() {
		for postID, n := range counts {
			task := ViewTask{PostID: postID, Count: n}
			select {
			case p.flushQueue <- task:
			default:
				log.Printf("Flush queue full, dropping %d views for post %d", n, postID)
			}
		}
		counts = make(map[uint]int64)
	}

	for {
		select {
		case postID := <-p.pending:
			counts[postID]++
		case <-ticker.C:
			flush()
		case <-p.stop:
			flush()
			return
		}
	}
}

func (p *ViewRecorder) worker(id int) {
	for task := range p.flushQueue {
		if err := p.process(task); err != nil {
			log.Printf("[Worker %d] Failed to flush views (PostID: %d, Count: %d): %v",
				id, task.PostID, task.Count, err)

			// 未达最大重试次数则进重试队列
			if task.Retry < p.maxRetry {
				task.Retry++
				select {
				case p.retryQueue <- task:
				default:
					log.Printf("[Worker %d] Retry queue full, views dropped: %+v", id, task)
				}
			} else {
				log.Printf("[Worker %d] Task exceeded max retries, dropped: %+v", id, task)
			}
		}
	}
}

func (p *ViewRecorder) retryWorker() {
	for task := range p.retryQueue {
		// 延迟重试，避免立即重试
		time.Sleep(time.Duration(task.Retry) * time.Second)

		select {
		case p.flushQueue <- task:
		default:
			log.Printf("[RetryWorker] Flush queue full, views dropped: %+v", task)
		}
	}
}

func (p *ViewRecorder) process(task ViewTask) error {
	if err := p.sink.IncrementViews(task.PostID, task.Count); err != nil {
		return err
	}
	metrics.GetGlobalCollector().RecordViewsFlushed(int(task.Count))
	return nil
}
